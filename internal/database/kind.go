package database

import "strings"

// Kind classifies a backend's dbtype label into a driver family.
type Kind string

const (
	KindPostgres  Kind = "postgres"
	KindTimescale Kind = "timescale"
	KindOracle    Kind = "oracle"
)

// KindOf maps a catalog dbtype label to its driver family. Unrecognized
// labels count as postgres, matching the connection string fallback.
func KindOf(dbtype string) Kind {
	switch strings.ToLower(strings.TrimSpace(dbtype)) {
	case "oracle":
		return KindOracle
	case "timescaledb", "timescale":
		return KindTimescale
	default:
		return KindPostgres
	}
}
