package reconcile

import (
	"fmt"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
)

// Names of the ledger queries a run depends on, as surfaced in errors.
const (
	QueryRoster = "user roster"
	QueryPayee  = "successful payments as payee"
	QueryPayer  = "successful payments as payer"
)

// QueryError reports a failed ledger read. It matches
// domain.ErrLedgerUnavailable as well as the underlying driver error.
type QueryError struct {
	Query  string
	UserID int64
	Err    error
}

func (e *QueryError) Error() string {
	if e.Query == QueryRoster {
		return fmt.Sprintf("%s: %v", e.Query, e.Err)
	}
	return fmt.Sprintf("%s for user %d: %v", e.Query, e.UserID, e.Err)
}

func (e *QueryError) Unwrap() []error {
	return []error{domain.ErrLedgerUnavailable, e.Err}
}

// InconsistencyError means one user's reconciliation cannot be trusted.
type InconsistencyError struct {
	UserID int64
	Key    string
	Reason string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("user %d (%s): %s", e.UserID, e.Key, e.Reason)
}

func (e *InconsistencyError) Unwrap() error {
	return domain.ErrLedgerInconsistent
}

// Inconsistencies collects every InconsistencyError in err's tree,
// including those combined with errors.Join.
func Inconsistencies(err error) []*InconsistencyError {
	var out []*InconsistencyError
	var walk func(error)
	walk = func(err error) {
		switch x := err.(type) {
		case nil:
		case *InconsistencyError:
			out = append(out, x)
		case interface{ Unwrap() []error }:
			for _, e := range x.Unwrap() {
				walk(e)
			}
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		}
	}
	walk(err)
	return out
}
