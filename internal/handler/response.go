package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
	"github.com/josh-kwaku/ledger-reconciler/internal/reconcile"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
	Meta    any       `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type queryFailure struct {
	Query  string `json:"query"`
	UserID *int64 `json:"user_id,omitempty"`
	Cause  string `json:"cause"`
}

type userFault struct {
	UserID int64  `json:"user_id"`
	Key    string `json:"user_key"`
	Reason string `json:"reason"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data, meta any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
		Meta:    meta,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError maps a failed run to an error response. Failure
// responses never carry data.
func RespondDomainError(w http.ResponseWriter, err error) {
	var qe *reconcile.QueryError

	switch {
	// A read cut off by the run deadline surfaces as a QueryError too.
	case errors.Is(err, context.DeadlineExceeded):
		RespondAppError(w, ErrReconcileTimeout, nil)
	case errors.As(err, &qe):
		details := queryFailure{Query: qe.Query, Cause: qe.Err.Error()}
		if qe.Query != reconcile.QueryRoster {
			details.UserID = &qe.UserID
		}
		RespondAppError(w, ErrLedgerUnavailable, details)
	case errors.Is(err, domain.ErrLedgerInconsistent):
		faults := reconcile.Inconsistencies(err)
		details := make([]userFault, len(faults))
		for i, f := range faults {
			details[i] = userFault{UserID: f.UserID, Key: f.Key, Reason: f.Reason}
		}
		RespondAppError(w, ErrLedgerInconsistent, details)
	default:
		slog.Error("unhandled domain error", "error", err)
		RespondAppError(w, ErrInternalError, nil)
	}
}
