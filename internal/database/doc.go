// Package database manages connection pools and per-request sessions for
// the configured backends.
//
// One lazy pool exists per backend name, created on first use:
//   - postgres-family backends (including timescaledb) use the pgx driver
//   - oracle backends use go-ora
//
// A Session is a dedicated connection checked out for a single tool
// invocation, liveness-probed before use, and returned on Release.
package database
