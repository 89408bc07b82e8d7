// Package server exposes archive processing over HTTP: a multipart upload
// endpoint that returns the rewritten archive, plus health, run history, and
// Prometheus metrics endpoints.
package server
