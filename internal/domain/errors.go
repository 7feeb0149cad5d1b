package domain

import "errors"

var (
	ErrLedgerUnavailable  = errors.New("ledger unavailable")
	ErrLedgerInconsistent = errors.New("ledger inconsistent")
)
