package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
	"github.com/josh-kwaku/ledger-reconciler/internal/testutil"
)

func TestUserRepository_List(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	ctx := context.Background()

	testutil.SeedUser(t, db, 2, "Leon", "Lin", testutil.Dec("12.34"))
	testutil.SeedUser(t, db, 1, "Andy", "Ma", testutil.Dec("100"))
	testutil.SeedUser(t, db, 3, "Charles", "", nil)
	_, err := db.Exec(`INSERT INTO "user" (id, first_name, last_name, balance) VALUES (4, 'Phillip', NULL, 0)`)
	require.NoError(t, err)

	users, err := NewUserRepository(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)

	assert.Equal(t, int64(1), users[0].ID, "ordered by id")
	assert.Equal(t, "AndyMa", users[0].Key())
	require.NotNil(t, users[0].Balance)
	assert.True(t, users[0].Balance.Equal(decimal.NewFromInt(100)))

	require.NotNil(t, users[1].Balance)
	assert.True(t, users[1].Balance.Equal(decimal.RequireFromString("12.34")), "got %s", users[1].Balance)

	assert.Nil(t, users[2].Balance, "NULL balance stays nil")
	assert.True(t, users[3].LastNameNull)
	assert.Equal(t, "Phillipnull", users[3].Key(), "NULL last name renders as null")
	assert.Equal(t, "Charles", users[2].Key(), "empty last name stays empty")
}

func TestPaymentRepository_ListSuccessful(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	ctx := context.Background()

	testutil.SeedUser(t, db, 1, "Andy", "Ma", testutil.Dec("0"))
	testutil.SeedUser(t, db, 2, "Leon", "Lin", testutil.Dec("0"))
	testutil.SeedUser(t, db, 3, "Kevin", "Zhu", testutil.Dec("0"))

	testutil.SeedPayment(t, db, 10, 2, 1, "150", domain.PaymentStateSuccessful)
	testutil.SeedPayment(t, db, 11, 3, 1, "0.25", domain.PaymentStateSuccessful)
	testutil.SeedPayment(t, db, 12, 2, 1, "99", domain.PaymentStatePending)
	testutil.SeedPayment(t, db, 13, 1, 3, "40", domain.PaymentStateSuccessful)
	testutil.SeedPayment(t, db, 14, 1, 2, "7", domain.PaymentStateFailed)

	repo := NewPaymentRepository(db)

	payee, err := repo.ListSuccessfulByPayee(ctx, 1)
	require.NoError(t, err)
	require.Len(t, payee, 2)
	assert.Equal(t, int64(10), payee[0].ID)
	assert.Equal(t, int64(2), payee[0].PayerUserID)
	assert.Equal(t, int64(1), payee[0].PayeeUserID)
	assert.True(t, payee[0].Amount.Equal(decimal.NewFromInt(150)))
	assert.True(t, payee[1].Amount.Equal(decimal.RequireFromString("0.25")), "got %s", payee[1].Amount)
	for _, p := range payee {
		assert.Equal(t, domain.PaymentStateSuccessful, p.State)
	}

	payer, err := repo.ListSuccessfulByPayer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, payer, 1)
	assert.Equal(t, int64(13), payer[0].ID)

	none, err := repo.ListSuccessfulByPayer(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPaymentRepository_QueryFailure(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	require.NoError(t, db.Close())

	_, err := NewPaymentRepository(db).ListSuccessfulByPayee(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ListSuccessfulByPayee")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "whatever", PoolConfig{})
	require.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(context.Background(), DriverSQLite, "file::memory:", PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
