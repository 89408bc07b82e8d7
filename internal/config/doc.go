// Package config loads, normalizes, and validates jlcut's TOML configuration.
//
// Configuration is resolved from an explicit --config path, then
// ~/.config/jlcut/config.toml, then a jlcut.toml in the working directory,
// falling back to built-in defaults when no file exists. All path values are
// tilde-expanded and made absolute during normalization so the rest of the
// code never deals with relative or user-shorthand paths.
package config
