package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sijms/go-ora/v2"

	"github.com/enerdata/tradegate/internal/config"
)

// Driver names registered by the imported driver packages.
const (
	driverPostgres = "pgx"
	driverOracle   = "oracle"
)

// connMaxLifetime recycles pooled connections so long-lived processes do
// not hold stale ones.
const connMaxLifetime = 5 * time.Minute

// openPool opens a lazy connection pool for the backend and applies its
// tuning. No dial happens here; the first acquired session connects.
func openPool(b config.Backend) (*sql.DB, error) {
	driver := driverPostgres
	if KindOf(b.DBType) == KindOracle {
		driver = driverOracle
	}

	db, err := sql.Open(driver, BuildConnString(b))
	if err != nil {
		return nil, fmt.Errorf("open %s pool: %w", driver, err)
	}

	maxConns := b.MaxConns
	if maxConns == 0 {
		maxConns = config.DefaultMaxConns
	}
	idleConns := b.MinConns
	if idleConns == 0 {
		idleConns = config.DefaultMinConns
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(idleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}
