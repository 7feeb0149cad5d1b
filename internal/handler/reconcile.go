package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/ledger-reconciler/internal/logging"
	"github.com/josh-kwaku/ledger-reconciler/internal/reconcile"
)

const (
	keyByName = "name"
	keyByID   = "id"
)

type reconciler interface {
	Run(ctx context.Context) (*reconcile.Report, error)
}

type ReconcileHandler struct {
	engine  reconciler
	timeout time.Duration
}

func NewReconcileHandler(engine reconciler, timeout time.Duration) *ReconcileHandler {
	return &ReconcileHandler{engine: engine, timeout: timeout}
}

type reportMeta struct {
	RunID      uuid.UUID   `json:"run_id"`
	KeyedBy    string      `json:"keyed_by"`
	Users      int         `json:"users"`
	Discrepant int         `json:"discrepant"`
	Tolerance  json.Number `json:"tolerance"`
	StartedAt  time.Time   `json:"started_at"`
	DurationMS int64       `json:"duration_ms"`
}

type entryDTO struct {
	UserID      int64       `json:"user_id"`
	Key         string      `json:"user_key"`
	Opening     json.Number `json:"opening"`
	Received    json.Number `json:"received"`
	Sent        json.Number `json:"sent"`
	Derived     json.Number `json:"derived"`
	Stored      json.Number `json:"stored"`
	Discrepancy json.Number `json:"discrepancy"`
	Balanced    bool        `json:"balanced"`
	Excluded    int         `json:"excluded_payments,omitempty"`
}

// Reconcile runs one reconciliation and responds with the discrepancy per
// user: {"AndyMa": 50, "LeonLin": 0}.
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	keyedBy, ok := parseKeyParam(r)
	if !ok {
		RespondValidationError(w, []FieldError{{Field: "key", Message: "must be one of: name, id"}})
		return
	}

	report, ok := h.run(w, r)
	if !ok {
		return
	}

	data := make(map[string]json.Number, len(report.Entries))
	for _, e := range report.Entries {
		k := e.Key
		if keyedBy == keyByID {
			k = strconv.FormatInt(e.UserID, 10)
		}
		data[k] = json.Number(e.Discrepancy.String())
	}

	RespondSuccess(w, http.StatusOK, data, newReportMeta(report, keyedBy))
}

// Details runs one reconciliation and responds with the full per-user
// breakdown in roster order.
func (h *ReconcileHandler) Details(w http.ResponseWriter, r *http.Request) {
	onlyDiscrepant := false
	if v := r.URL.Query().Get("only_discrepant"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "only_discrepant", Message: "must be a boolean"}})
			return
		}
		onlyDiscrepant = b
	}

	report, ok := h.run(w, r)
	if !ok {
		return
	}

	entries := report.Entries
	if onlyDiscrepant {
		entries = report.Discrepant()
	}

	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}

	RespondSuccess(w, http.StatusOK, out, newReportMeta(report, keyByID))
}

func (h *ReconcileHandler) run(w http.ResponseWriter, r *http.Request) (*reconcile.Report, bool) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	report, err := h.engine.Run(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("reconciliation failed", "error", err)
		RespondDomainError(w, err)
		return nil, false
	}
	return report, true
}

func parseKeyParam(r *http.Request) (string, bool) {
	switch v := r.URL.Query().Get("key"); v {
	case "", keyByName:
		return keyByName, true
	case keyByID:
		return keyByID, true
	default:
		return "", false
	}
}

func newReportMeta(report *reconcile.Report, keyedBy string) reportMeta {
	return reportMeta{
		RunID:      report.RunID,
		KeyedBy:    keyedBy,
		Users:      len(report.Entries),
		Discrepant: len(report.Discrepant()),
		Tolerance:  json.Number(report.Tolerance.String()),
		StartedAt:  report.StartedAt,
		DurationMS: report.Duration().Milliseconds(),
	}
}

func toEntryDTO(e reconcile.Entry) entryDTO {
	return entryDTO{
		UserID:      e.UserID,
		Key:         e.Key,
		Opening:     json.Number(e.Opening.String()),
		Received:    json.Number(e.Received.String()),
		Sent:        json.Number(e.Sent.String()),
		Derived:     json.Number(e.Derived.String()),
		Stored:      json.Number(e.Stored.String()),
		Discrepancy: json.Number(e.Discrepancy.String()),
		Balanced:    e.Balanced(),
		Excluded:    e.Excluded,
	}
}
