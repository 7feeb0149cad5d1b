package reconcile

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
)

type fakeRoster struct {
	users []domain.User
	err   error
}

func (f *fakeRoster) List(_ context.Context) ([]domain.User, error) {
	return f.users, f.err
}

type fakePayments struct {
	payee    map[int64][]domain.Payment
	payer    map[int64][]domain.Payment
	payeeErr map[int64]error
	payerErr map[int64]error
	delay    time.Duration

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
	calls       atomic.Int64
}

func (f *fakePayments) ListSuccessfulByPayee(ctx context.Context, userID int64) ([]domain.Payment, error) {
	return f.read(ctx, f.payee[userID], f.payeeErr[userID])
}

func (f *fakePayments) ListSuccessfulByPayer(ctx context.Context, userID int64) ([]domain.Payment, error) {
	return f.read(ctx, f.payer[userID], f.payerErr[userID])
}

func (f *fakePayments) read(ctx context.Context, payments []domain.Payment, err error) ([]domain.Payment, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// blockingPayments holds one payer read open until the context is
// cancelled, and fails one payee read once that read is in flight.
type blockingPayments struct {
	blockUser int64
	failUser  int64
	failErr   error

	started   chan struct{}
	cancelled atomic.Bool
}

func (b *blockingPayments) ListSuccessfulByPayee(ctx context.Context, userID int64) ([]domain.Payment, error) {
	if userID == b.failUser {
		select {
		case <-b.started:
		case <-time.After(5 * time.Second):
		}
		return nil, b.failErr
	}
	return nil, nil
}

func (b *blockingPayments) ListSuccessfulByPayer(ctx context.Context, userID int64) ([]domain.Payment, error) {
	if userID != b.blockUser {
		return nil, nil
	}
	close(b.started)
	select {
	case <-ctx.Done():
		b.cancelled.Store(true)
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, nil
	}
}

type fakeBaseline map[int64]decimal.Decimal

func (f fakeBaseline) Lookup(u domain.User) decimal.Decimal {
	return f[u.ID]
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func successful(id, payer, payee int64, amount string) domain.Payment {
	return domain.Payment{ID: id, PayerUserID: payer, PayeeUserID: payee, Amount: dec(amount), State: domain.PaymentStateSuccessful}
}

func withState(p domain.Payment, s domain.PaymentState) domain.Payment {
	p.State = s
	return p
}
