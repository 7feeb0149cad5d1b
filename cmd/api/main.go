package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josh-kwaku/ledger-reconciler/api"
	"github.com/josh-kwaku/ledger-reconciler/internal/app"
	"github.com/josh-kwaku/ledger-reconciler/internal/config"
	"github.com/josh-kwaku/ledger-reconciler/internal/handler"
	"github.com/josh-kwaku/ledger-reconciler/internal/logging"
	"github.com/josh-kwaku/ledger-reconciler/internal/middleware"
	"github.com/josh-kwaku/ledger-reconciler/internal/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(os.Stdout, "ledger-reconciler", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.ConnectOptions{Attempts: 30, Delay: time.Second})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	slog.Info("baseline loaded", "entries", a.Baseline.Len(), "file", cfg.BaselineFile)

	if cfg.ScheduleInterval > 0 {
		scheduler := reconcile.NewScheduler(a.Engine, logger.With("component", "scheduler"), cfg.ScheduleInterval, cfg.RunTimeout())
		go scheduler.Start(ctx)
	}

	mux := http.NewServeMux()

	health := handler.NewHealthHandler(a.DB)
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /health/ready", health.Readiness)
	mux.HandleFunc("GET /docs", handler.ServeDocs())
	mux.HandleFunc("GET /docs/openapi.yaml", handler.ServeSpec(api.OpenAPI))

	reconciler := handler.NewReconcileHandler(a.Engine, cfg.RunTimeout())
	var protect func(http.Handler) http.Handler
	if cfg.OperatorJWTSecret != "" {
		protect = middleware.Auth(cfg.OperatorJWTSecret)
	} else {
		slog.Warn("OPERATOR_JWT_SECRET not set; reconciliation endpoints are unauthenticated")
		protect = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("GET /api/v1/reconcile", protect(http.HandlerFunc(reconciler.Reconcile)))
	mux.Handle("GET /api/v1/reconcile/details", protect(http.HandlerFunc(reconciler.Details)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.Chain(mux, middleware.Tracing, middleware.Logging(logger), middleware.Recovery),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RunTimeout() + 15*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
