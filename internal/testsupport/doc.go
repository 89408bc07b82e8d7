// Package testsupport provides shared helpers for tests: temp-dir seeded
// configs, timeline XML fixtures, and zip archive builders.
package testsupport
