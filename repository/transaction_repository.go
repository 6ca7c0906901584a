package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"

	"github.com/sirupsen/logrus"
)

// ExportHeader is the first line of every transaction export.
const ExportHeader = "Transaction ID,Account Number,Type,Amount,Balance After,Timestamp,Description,Status"

// ITransactionRepository defines the contract for persisting the transaction log.
type ITransactionRepository interface {
	LoadTransactions(ctx context.Context) []*model.Transaction
	SaveTransactions(ctx context.Context, transactions []*model.Transaction) error
	ExportTransactionsToText(transactions []*model.Transaction, destination string) error
}

// TransactionRepository stores the whole transaction log as one JSON blob.
type TransactionRepository struct {
	store    IBlobStore
	blobName string
}

func NewTransactionRepository(store IBlobStore, blobName string) *TransactionRepository {
	return &TransactionRepository{store: store, blobName: blobName}
}

// LoadTransactions returns the saved log; missing or unreadable data yields an empty log.
func (r *TransactionRepository) LoadTransactions(ctx context.Context) []*model.Transaction {
	log := logger.Log.WithField("blob", r.blobName)

	data, err := r.store.Load(ctx, r.blobName)
	if err != nil {
		if !errors.Is(err, ErrBlobNotFound) {
			log.WithError(err).Warn("Failed to load transactions, starting with an empty log")
		}
		return []*model.Transaction{}
	}

	var transactions []*model.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		log.WithError(err).Warn("Stored transactions are unreadable, starting with an empty log")
		return []*model.Transaction{}
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}

	log.WithField("count", len(transactions)).Info("Transactions loaded")
	return transactions
}

func (r *TransactionRepository) SaveTransactions(ctx context.Context, transactions []*model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"blob":  r.blobName,
		"count": len(transactions),
	})

	data, err := json.Marshal(transactions)
	if err != nil {
		return fmt.Errorf("could not encode transactions: %w", err)
	}
	if err := r.store.Save(ctx, r.blobName, data); err != nil {
		log.WithError(err).Error("Failed to save transactions")
		return err
	}
	return nil
}

// ExportTransactionsToText writes transactions to destination, creating its directory.
func (r *TransactionRepository) ExportTransactionsToText(transactions []*model.Transaction, destination string) error {
	log := logger.Log.WithFields(logrus.Fields{
		"destination": destination,
		"count":       len(transactions),
	})

	if dir := filepath.Dir(destination); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.WithError(err).Error("Failed to create export directory")
			return fmt.Errorf("could not create export directory: %w", err)
		}
	}

	f, err := os.Create(destination)
	if err != nil {
		log.WithError(err).Error("Failed to create export file")
		return fmt.Errorf("could not create export file: %w", err)
	}

	if err := WriteTransactionsText(f, transactions); err != nil {
		f.Close()
		log.WithError(err).Error("Failed to write export file")
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close export file: %w", err)
	}

	log.Info("Transactions exported")
	return nil
}

// WriteTransactionsText writes the header and one line per transaction.
// Only the description is quoted; embedded quotes are doubled.
func WriteTransactionsText(w io.Writer, transactions []*model.Transaction) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ExportHeader)
	for _, t := range transactions {
		fmt.Fprintf(bw, "%s,%s,%s,%s,%s,%s,\"%s\",%s\n",
			t.TransactionID,
			t.AccountNumber,
			t.Type.DisplayName(),
			common.FormatAmount(t.Amount),
			common.FormatAmount(t.BalanceAfter),
			common.FormatDateTime(t.Timestamp),
			strings.ReplaceAll(t.Description, `"`, `""`),
			t.Status,
		)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not write transactions: %w", err)
	}
	return nil
}
