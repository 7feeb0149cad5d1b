// Package app wires configuration, storage and the reconcile engine for the
// binaries under cmd/.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/josh-kwaku/ledger-reconciler/internal/baseline"
	"github.com/josh-kwaku/ledger-reconciler/internal/config"
	"github.com/josh-kwaku/ledger-reconciler/internal/reconcile"
	"github.com/josh-kwaku/ledger-reconciler/internal/repository"
)

type App struct {
	DB       *sql.DB
	Baseline *baseline.Table
	Engine   *reconcile.Engine
}

// ConnectOptions controls how patiently New waits for the database.
type ConnectOptions struct {
	Attempts int
	Delay    time.Duration
}

func New(ctx context.Context, cfg *config.Config, conn ConnectOptions) (*App, error) {
	table, err := baseline.Load(cfg.BaselineFile)
	if err != nil {
		return nil, fmt.Errorf("app.New: %w", err)
	}

	db, err := connectDB(ctx, cfg, conn)
	if err != nil {
		return nil, fmt.Errorf("app.New: %w", err)
	}

	engine := reconcile.NewEngine(
		repository.NewUserRepository(db),
		repository.NewPaymentRepository(db),
		table,
		reconcile.Options{
			Tolerance:   cfg.Tolerance,
			Exact:       cfg.Tolerance.IsZero(),
			Concurrency: cfg.Concurrency,
		},
	)

	return &App{DB: db, Baseline: table, Engine: engine}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

func connectDB(ctx context.Context, cfg *config.Config, conn ConnectOptions) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	attempts := max(conn.Attempts, 1)

	var err error
	for i := range attempts {
		var db *sql.DB
		if db, err = repository.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, pool); err == nil {
			return db, nil
		}
		if i == attempts-1 {
			break
		}
		slog.Info("waiting for database", "attempt", i+1, "error", err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connectDB: %w", ctx.Err())
		case <-time.After(conn.Delay):
		}
	}

	return nil, fmt.Errorf("connectDB: gave up after %d attempts: %w", attempts, err)
}
