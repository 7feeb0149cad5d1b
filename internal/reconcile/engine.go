// Package reconcile checks every user's stored balance against the balance
// derived from successful payments plus an opening position.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
	"github.com/josh-kwaku/ledger-reconciler/internal/logging"
)

const DefaultConcurrency = 16

type rosterReader interface {
	List(ctx context.Context) ([]domain.User, error)
}

type paymentReader interface {
	ListSuccessfulByPayee(ctx context.Context, userID int64) ([]domain.Payment, error)
	ListSuccessfulByPayer(ctx context.Context, userID int64) ([]domain.Payment, error)
}

type baselineTable interface {
	Lookup(u domain.User) decimal.Decimal
}

// Options tunes an Engine. A zero or negative Tolerance means
// DefaultTolerance; set Exact to require derived and stored to match
// exactly. A non-positive Concurrency means DefaultConcurrency.
type Options struct {
	Tolerance   decimal.Decimal
	Exact       bool
	Concurrency int
}

// Engine holds no state between runs; concurrent Run calls are independent.
type Engine struct {
	users       rosterReader
	payments    paymentReader
	baseline    baselineTable
	tolerance   decimal.Decimal
	concurrency int
	now         func() time.Time
}

func NewEngine(users rosterReader, payments paymentReader, baseline baselineTable, opts Options) *Engine {
	tolerance := opts.Tolerance
	switch {
	case opts.Exact:
		tolerance = decimal.Zero
	case !tolerance.IsPositive():
		tolerance = DefaultTolerance
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Engine{
		users:       users,
		payments:    payments,
		baseline:    baseline,
		tolerance:   tolerance,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run reconciles the whole roster. It either returns a report covering
// every user or an error; never a partial report.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	runID := uuid.New()
	log := logging.FromContext(ctx).With("run_id", runID)
	started := e.now()

	users, err := e.users.List(ctx)
	if err != nil {
		err = &QueryError{Query: QueryRoster, Err: err}
		log.Error("reconciliation failed", "error", err)
		return nil, fmt.Errorf("Run: %w", err)
	}

	if err := validateRoster(users); err != nil {
		log.Error("reconciliation failed: inconsistent roster", "error", err)
		return nil, fmt.Errorf("Run: %w", err)
	}

	fetched, err := e.fetch(ctx, users)
	if err != nil {
		log.Error("reconciliation failed", "error", err)
		return nil, fmt.Errorf("Run: %w", err)
	}

	entries := make([]Entry, len(users))
	var faults []error
	excluded := 0
	for i, u := range users {
		t, err := aggregate(u, e.baseline.Lookup(u), fetched[i])
		if err != nil {
			faults = append(faults, err)
			continue
		}

		derived := t.derived()
		entries[i] = Entry{
			UserID:      u.ID,
			Key:         u.Key(),
			Opening:     t.opening,
			Received:    t.received,
			Sent:        t.sent,
			Derived:     derived,
			Stored:      *u.Balance,
			Discrepancy: Classify(derived, *u.Balance, e.tolerance),
			Excluded:    t.excluded,
		}
		excluded += t.excluded
	}

	if len(faults) > 0 {
		err := errors.Join(faults...)
		log.Error("reconciliation failed: inconsistent ledger", "error", err)
		return nil, fmt.Errorf("Run: %w", err)
	}

	if excluded > 0 {
		log.Warn("ledger reader returned non-successful payments; excluded them", "count", excluded)
	}

	report := &Report{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: e.now(),
		Tolerance:  e.tolerance,
		Entries:    entries,
	}

	log.Info("reconciliation completed",
		"users", len(entries),
		"discrepant", len(report.Discrepant()),
		"duration_ms", report.Duration().Milliseconds(),
	)

	return report, nil
}

// fetch issues both reads for every user with bounded concurrency. The
// first failure cancels the remaining reads and nothing is returned.
func (e *Engine) fetch(ctx context.Context, users []domain.User) ([]userPayments, error) {
	out := make([]userPayments, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, u := range users {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			payments, err := e.payments.ListSuccessfulByPayee(gctx, u.ID)
			if err != nil {
				return &QueryError{Query: QueryPayee, UserID: u.ID, Err: err}
			}
			out[i].received = payments
			return nil
		})

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			payments, err := e.payments.ListSuccessfulByPayer(gctx, u.ID)
			if err != nil {
				return &QueryError{Query: QueryPayer, UserID: u.ID, Err: err}
			}
			out[i].sent = payments
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The loop may have stopped early on a cancelled parent context.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func validateRoster(users []domain.User) error {
	var faults []error
	seen := make(map[string]int64, len(users))

	for _, u := range users {
		key := u.Key()
		if u.Balance == nil {
			faults = append(faults, &InconsistencyError{UserID: u.ID, Key: key, Reason: "stored balance is missing"})
		}
		if key == "" {
			faults = append(faults, &InconsistencyError{UserID: u.ID, Key: key, Reason: "user has no name to key the report by"})
			continue
		}
		if prev, ok := seen[key]; ok {
			faults = append(faults, &InconsistencyError{
				UserID: u.ID,
				Key:    key,
				Reason: fmt.Sprintf("report key already used by user %d", prev),
			})
			continue
		}
		seen[key] = u.ID
	}

	return errors.Join(faults...)
}
