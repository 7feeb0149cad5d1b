package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
)

const paymentColumns = `id, payer_user_id, payee_user_id, amount, state`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) ListSuccessfulByPayee(ctx context.Context, userID int64) ([]domain.Payment, error) {
	payments, err := r.list(ctx,
		`SELECT `+paymentColumns+` FROM payment
		WHERE payee_user_id = $1 AND state = $2 ORDER BY id`,
		userID, string(domain.PaymentStateSuccessful),
	)
	if err != nil {
		return nil, fmt.Errorf("ListSuccessfulByPayee: %w", err)
	}
	return payments, nil
}

func (r *PaymentRepository) ListSuccessfulByPayer(ctx context.Context, userID int64) ([]domain.Payment, error) {
	payments, err := r.list(ctx,
		`SELECT `+paymentColumns+` FROM payment
		WHERE payer_user_id = $1 AND state = $2 ORDER BY id`,
		userID, string(domain.PaymentStateSuccessful),
	)
	if err != nil {
		return nil, fmt.Errorf("ListSuccessfulByPayer: %w", err)
	}
	return payments, nil
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return payments, nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var p domain.Payment
	err := s.Scan(&p.ID, &p.PayerUserID, &p.PayeeUserID, &p.Amount, &p.State)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
