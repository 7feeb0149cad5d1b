package reconcile

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
)

type side int

const (
	sidePayee side = iota
	sidePayer
)

func (s side) String() string {
	if s == sidePayee {
		return "payee"
	}
	return "payer"
}

func (s side) party(p domain.Payment) int64 {
	if s == sidePayee {
		return p.PayeeUserID
	}
	return p.PayerUserID
}

// userPayments holds the two reads for one roster user.
type userPayments struct {
	received []domain.Payment
	sent     []domain.Payment
}

type totals struct {
	opening  decimal.Decimal
	received decimal.Decimal
	sent     decimal.Decimal
	excluded int
}

func (t totals) derived() decimal.Decimal {
	return t.received.Sub(t.sent)
}

// aggregate credits the opening position on the received side only; it
// is a net amount and must not count twice.
func aggregate(u domain.User, opening decimal.Decimal, up userPayments) (totals, error) {
	in, skippedIn, errIn := sumSuccessful(u, up.received, sidePayee)
	out, skippedOut, errOut := sumSuccessful(u, up.sent, sidePayer)
	if err := errors.Join(errIn, errOut); err != nil {
		return totals{}, err
	}

	return totals{
		opening:  opening,
		received: opening.Add(in),
		sent:     out,
		excluded: skippedIn + skippedOut,
	}, nil
}

// sumSuccessful re-applies the successful-state filter the query already
// asked for, so a reader that stops filtering cannot inflate a total.
func sumSuccessful(u domain.User, payments []domain.Payment, s side) (decimal.Decimal, int, error) {
	sum := decimal.Zero
	skipped := 0
	for _, p := range payments {
		if !p.State.IsValid() {
			return decimal.Zero, 0, &InconsistencyError{
				UserID: u.ID,
				Key:    u.Key(),
				Reason: fmt.Sprintf("payment %d has unknown state %q", p.ID, p.State),
			}
		}
		if p.State != domain.PaymentStateSuccessful {
			skipped++
			continue
		}
		if s.party(p) != u.ID {
			return decimal.Zero, 0, &InconsistencyError{
				UserID: u.ID,
				Key:    u.Key(),
				Reason: fmt.Sprintf("payment %d returned on %s side references user %d", p.ID, s, s.party(p)),
			}
		}
		if !p.Amount.IsPositive() {
			return decimal.Zero, 0, &InconsistencyError{
				UserID: u.ID,
				Key:    u.Key(),
				Reason: fmt.Sprintf("payment %d has non-positive amount %s", p.ID, p.Amount),
			}
		}
		sum = sum.Add(p.Amount)
	}
	return sum, skipped, nil
}
