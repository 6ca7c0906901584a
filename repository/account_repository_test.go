package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-bank-ledger/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// erroringStore fails every call with err.
type erroringStore struct{ err error }

func (s erroringStore) Load(context.Context, string) ([]byte, error) { return nil, s.err }
func (s erroringStore) Save(context.Context, string, []byte) error   { return s.err }

func sampleAccounts() []*model.Account {
	created := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	return []*model.Account{
		{
			AccountNumber: "ACC1705307400000",
			CustomerName:  "Asha Verma",
			PhoneNumber:   "9876543210",
			Email:         "asha@example.com",
			Address:       "12 MG Road, Bengaluru",
			AccountType:   model.AccountTypeSavings,
			Balance:       decimal.RequireFromString("1050.25"),
			DateCreated:   created,
			Pin:           "1234",
			IsActive:      true,
		},
		{
			AccountNumber: "ACC1705307400001",
			CustomerName:  "Ravi Kumar",
			PhoneNumber:   "8123456789",
			Email:         "ravi@example.com",
			Address:       "4 Park Street, Kolkata",
			AccountType:   model.AccountTypeFixedDeposit,
			Balance:       decimal.RequireFromString("10000"),
			DateCreated:   created.Add(time.Hour),
			Pin:           "4321",
			IsActive:      true,
		},
	}
}

func TestAccountRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(NewFileBlobStore(t.TempDir()), "accounts.json")
	saved := sampleAccounts()

	require.NoError(t, repo.SaveAccounts(ctx, saved))
	loaded := repo.LoadAccounts(ctx)

	require.Len(t, loaded, len(saved))
	for i := range saved {
		assert.Equal(t, saved[i].AccountNumber, loaded[i].AccountNumber)
		assert.Equal(t, saved[i].CustomerName, loaded[i].CustomerName)
		assert.Equal(t, saved[i].Email, loaded[i].Email)
		assert.Equal(t, saved[i].AccountType, loaded[i].AccountType)
		assert.Equal(t, saved[i].Pin, loaded[i].Pin)
		assert.Equal(t, saved[i].IsActive, loaded[i].IsActive)
		assert.True(t, saved[i].Balance.Equal(loaded[i].Balance))
		assert.True(t, saved[i].DateCreated.Equal(loaded[i].DateCreated))
	}
}

func TestAccountRepository_LoadFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("missing blob", func(t *testing.T) {
		repo := NewAccountRepository(NewFileBlobStore(t.TempDir()), "accounts.json")
		loaded := repo.LoadAccounts(ctx)
		assert.NotNil(t, loaded)
		assert.Empty(t, loaded)
	})

	t.Run("corrupt blob", func(t *testing.T) {
		store := NewFileBlobStore(t.TempDir())
		require.NoError(t, store.Save(ctx, "accounts.json", []byte("not json")))

		assert.Empty(t, NewAccountRepository(store, "accounts.json").LoadAccounts(ctx))
	})

	t.Run("null blob", func(t *testing.T) {
		store := NewFileBlobStore(t.TempDir())
		require.NoError(t, store.Save(ctx, "accounts.json", []byte("null")))

		loaded := NewAccountRepository(store, "accounts.json").LoadAccounts(ctx)
		assert.NotNil(t, loaded)
		assert.Empty(t, loaded)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := NewAccountRepository(erroringStore{err: errors.New("permission denied")}, "accounts.json")
		assert.Empty(t, repo.LoadAccounts(ctx))
	})
}

func TestAccountRepository_SaveFailure(t *testing.T) {
	storeErr := errors.New("disk full")
	repo := NewAccountRepository(erroringStore{err: storeErr}, "accounts.json")

	err := repo.SaveAccounts(context.Background(), sampleAccounts())

	assert.ErrorIs(t, err, storeErr)
}
