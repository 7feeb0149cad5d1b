package testutil

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
)

// SeedUser inserts a roster row. A nil balance stores NULL.
func SeedUser(t *testing.T, db *sql.DB, id int64, firstName, lastName string, balance *decimal.Decimal) domain.User {
	t.Helper()

	var stored any
	if balance != nil {
		stored = balance.String()
	}

	_, err := db.Exec(
		`INSERT INTO "user" (id, first_name, last_name, balance) VALUES ($1, $2, $3, $4)`,
		id, firstName, lastName, stored,
	)
	if err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
	return domain.User{ID: id, FirstName: firstName, LastName: lastName, Balance: balance}
}

func SeedPayment(t *testing.T, db *sql.DB, id, payerID, payeeID int64, amount string, state domain.PaymentState) domain.Payment {
	t.Helper()

	amt := decimal.RequireFromString(amount)
	_, err := db.Exec(
		`INSERT INTO payment (id, payer_user_id, payee_user_id, amount, state) VALUES ($1, $2, $3, $4, $5)`,
		id, payerID, payeeID, amt.String(), string(state),
	)
	if err != nil {
		t.Fatalf("seed payment %d: %v", id, err)
	}
	return domain.Payment{ID: id, PayerUserID: payerID, PayeeUserID: payeeID, Amount: amt, State: state}
}

// Dec is decimal.RequireFromString as a pointer, for stored balances.
func Dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
