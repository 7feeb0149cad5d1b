package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Version is set at build time with -ldflags.
var Version = "dev"

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness reports whether the ledger database answers. A reconciliation
// cannot succeed without it.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	ledgerStatus := "ok"
	httpStatus := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		slog.Warn("readiness check failed: ledger database unreachable", "error", err)
		ledgerStatus = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	overallStatus := "ok"
	if httpStatus != http.StatusOK {
		overallStatus = "down"
	}

	RespondJSON(w, httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"ledger": ledgerStatus,
		},
	})
}
