package domain

import "github.com/shopspring/decimal"

type PaymentState string

const (
	PaymentStateSuccessful PaymentState = "successful"
	PaymentStatePending    PaymentState = "pending"
	PaymentStateFailed     PaymentState = "failed"
	PaymentStateCancelled  PaymentState = "cancelled"
)

func (s PaymentState) IsValid() bool {
	switch s {
	case PaymentStateSuccessful, PaymentStatePending, PaymentStateFailed, PaymentStateCancelled:
		return true
	}
	return false
}

type Payment struct {
	ID          int64
	PayerUserID int64
	PayeeUserID int64
	Amount      decimal.Decimal
	State       PaymentState
}
