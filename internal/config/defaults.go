package config

import "time"

// Canonical backend names. The catalog document may use any section names,
// but these two are recognized without a dbtype field and routing prefers
// them in this order.
const (
	TimescaleName = "timescaledb"
	PostgresName  = "PostgreSQL"
	DefaultName   = "default"
)

// Default values for path resolution and the built-in fallback backend.
const (
	DefaultConfigPath = "configs/databases.yaml"
	EnvConfigPath     = "TRADEGATE_DB_CONFIG"

	DefaultRemoteHost    = "192.168.10.91"
	DefaultRemoteTimeout = 10 * time.Second

	DefaultDBType   = "postgre"
	DefaultUser     = "postgres"
	DefaultPassword = "password"
	DefaultHost     = "localhost"
	DefaultPort     = 5432
	DefaultDatabase = "postgres"

	DefaultSSLMode  = "prefer"
	DefaultMaxConns = 10
	DefaultMinConns = 2
)

// DefaultBackend returns the built-in backend used when no catalog document
// can be read or the document names no backends.
func DefaultBackend() Backend {
	return Backend{
		Name:     DefaultName,
		DBType:   DefaultDBType,
		User:     DefaultUser,
		Password: DefaultPassword,
		Host:     DefaultHost,
		Port:     DefaultPort,
		Database: DefaultDatabase,
	}
}
