package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
)

const userColumns = `id, first_name, last_name, balance`

// UserRepository reads the roster. It never writes.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM "user" ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return users, nil
}

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	var firstName, lastName sql.NullString
	var balance decimal.NullDecimal

	if err := s.Scan(&u.ID, &firstName, &lastName, &balance); err != nil {
		return nil, err
	}

	u.FirstName, u.FirstNameNull = firstName.String, !firstName.Valid
	u.LastName, u.LastNameNull = lastName.String, !lastName.Valid
	if balance.Valid {
		u.Balance = &balance.Decimal
	}
	return &u, nil
}
