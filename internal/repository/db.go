package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite3"
)

type scanner interface {
	Scan(dest ...any) error
}

type PoolConfig struct {
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetimeS int
	ConnMaxIdleTimeS int
}

func Open(ctx context.Context, driver, databaseURL string, pool PoolConfig) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("Open: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeS) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeS) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open: ping: %w", err)
	}

	return db, nil
}
