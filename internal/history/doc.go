// Package history persists a journal of archive-processing runs in SQLite.
//
// Each run records what was asked (source, cut kind, offset) and what came
// of it (timelines, boundaries, applied and failed cuts, terminal status).
// The journal backs the `jlcut runs` command and the /api/runs endpoint.
package history
