// Package logging builds the slog loggers used across jlcut.
//
// Two handler formats are supported: a compact console format for
// interactive use and standard JSON for log shippers. Attr helpers keep
// call sites terse and give every subsystem a consistent component field.
package logging
