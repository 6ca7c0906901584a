package repository

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-bank-ledger/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions() []*model.Transaction {
	at := time.Date(2024, 2, 5, 14, 7, 9, 0, time.Local)
	return []*model.Transaction{
		{
			TransactionID: "TXNA1",
			AccountNumber: "ACC1",
			Type:          model.TransactionTypeDeposit,
			Amount:        decimal.RequireFromString("1000"),
			BalanceAfter:  decimal.RequireFromString("1000"),
			Timestamp:     at,
			Description:   "Initial deposit - Account opening",
			Status:        model.StatusSuccess,
		},
		{
			TransactionID:     "TXNA2",
			AccountNumber:     "ACC1",
			Type:              model.TransactionTypeTransferOut,
			Amount:            decimal.RequireFromString("49.5"),
			BalanceAfter:      decimal.RequireFromString("950.5"),
			Timestamp:         at.Add(90 * time.Second),
			Description:       `Gift for "Mom" - Transfer to ACC2`,
			TransferToAccount: "ACC2",
			Status:            model.StatusSuccess,
		},
	}
}

func TestTransactionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteBlobStore(openTestSQLite(t))
	require.NoError(t, err)
	repo := NewTransactionRepository(store, "transactions.json")
	saved := sampleTransactions()

	require.NoError(t, repo.SaveTransactions(ctx, saved))
	loaded := repo.LoadTransactions(ctx)

	require.Len(t, loaded, len(saved))
	for i := range saved {
		assert.Equal(t, saved[i].TransactionID, loaded[i].TransactionID)
		assert.Equal(t, saved[i].Type, loaded[i].Type)
		assert.Equal(t, saved[i].Description, loaded[i].Description)
		assert.Equal(t, saved[i].TransferToAccount, loaded[i].TransferToAccount)
		assert.True(t, saved[i].Amount.Equal(loaded[i].Amount))
		assert.True(t, saved[i].BalanceAfter.Equal(loaded[i].BalanceAfter))
		assert.True(t, saved[i].Timestamp.Equal(loaded[i].Timestamp))
	}
}

func TestTransactionRepository_LoadFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewFileBlobStore(t.TempDir())
	require.NoError(t, store.Save(ctx, "transactions.json", []byte("{broken")))

	assert.Empty(t, NewTransactionRepository(store, "transactions.json").LoadTransactions(ctx))
	assert.Empty(t, NewTransactionRepository(erroringStore{err: errors.New("boom")}, "transactions.json").LoadTransactions(ctx))
}

func TestWriteTransactionsText(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteTransactionsText(&buf, sampleTransactions()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Transaction ID,Account Number,Type,Amount,Balance After,Timestamp,Description,Status", lines[0])
	assert.Equal(t, `TXNA1,ACC1,Deposit,1000.00,1000.00,05/02/2024 14:07:09,"Initial deposit - Account opening",SUCCESS`, lines[1])
	assert.Equal(t, `TXNA2,ACC1,Transfer Out,49.50,950.50,05/02/2024 14:08:39,"Gift for ""Mom"" - Transfer to ACC2",SUCCESS`, lines[2])
}

func TestExportTransactionsToText(t *testing.T) {
	repo := NewTransactionRepository(NewFileBlobStore(t.TempDir()), "transactions.json")
	destination := filepath.Join(t.TempDir(), "exports", "ACC1.csv")

	require.NoError(t, repo.ExportTransactionsToText(sampleTransactions(), destination))

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), ExportHeader+"\n"))
	assert.Equal(t, 3, strings.Count(string(data), "\n"))

	t.Run("empty log writes only the header", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.csv")
		require.NoError(t, repo.ExportTransactionsToText(nil, empty))

		data, err := os.ReadFile(empty)
		require.NoError(t, err)
		assert.Equal(t, ExportHeader+"\n", string(data))
	})
}
