package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrLedgerUnavailable  = &AppError{http.StatusServiceUnavailable, "LEDGER_UNAVAILABLE", "A ledger query failed; no report was produced"}
	ErrLedgerInconsistent = &AppError{http.StatusInternalServerError, "LEDGER_INCONSISTENT", "Ledger data is inconsistent; no report was produced"}
	ErrReconcileTimeout   = &AppError{http.StatusGatewayTimeout, "RECONCILE_TIMEOUT", "Reconciliation did not finish in time; no report was produced"}
)
