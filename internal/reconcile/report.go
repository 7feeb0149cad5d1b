package reconcile

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one roster user's result. Discrepancy is exactly zero when the
// user balances within tolerance.
type Entry struct {
	UserID      int64
	Key         string
	Opening     decimal.Decimal
	Received    decimal.Decimal
	Sent        decimal.Decimal
	Derived     decimal.Decimal
	Stored      decimal.Decimal
	Discrepancy decimal.Decimal
	Excluded    int
}

func (e Entry) Balanced() bool {
	return e.Discrepancy.IsZero()
}

// Report covers every roster user, in roster order.
type Report struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Tolerance  decimal.Decimal
	Entries    []Entry
}

func (r *Report) ByKey() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.Entries))
	for _, e := range r.Entries {
		out[e.Key] = e.Discrepancy
	}
	return out
}

func (r *Report) ByUserID() map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(r.Entries))
	for _, e := range r.Entries {
		out[e.UserID] = e.Discrepancy
	}
	return out
}

func (r *Report) Discrepant() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if !e.Balanced() {
			out = append(out, e)
		}
	}
	return out
}

func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
