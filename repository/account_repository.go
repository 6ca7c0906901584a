package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"

	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for persisting the account collection.
type IAccountRepository interface {
	LoadAccounts(ctx context.Context) []*model.Account
	SaveAccounts(ctx context.Context, accounts []*model.Account) error
}

// AccountRepository stores the whole account collection as one JSON blob.
type AccountRepository struct {
	store    IBlobStore
	blobName string
}

func NewAccountRepository(store IBlobStore, blobName string) *AccountRepository {
	return &AccountRepository{store: store, blobName: blobName}
}

// LoadAccounts returns the saved collection in saved order. A missing or
// unreadable blob yields an empty collection.
func (r *AccountRepository) LoadAccounts(ctx context.Context) []*model.Account {
	log := logger.Log.WithField("blob", r.blobName)

	data, err := r.store.Load(ctx, r.blobName)
	if err != nil {
		if !errors.Is(err, ErrBlobNotFound) {
			log.WithError(err).Warn("Failed to load accounts, starting with an empty collection")
		}
		return []*model.Account{}
	}

	var accounts []*model.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		log.WithError(err).Warn("Stored accounts are unreadable, starting with an empty collection")
		return []*model.Account{}
	}
	if accounts == nil {
		accounts = []*model.Account{}
	}

	log.WithField("count", len(accounts)).Info("Accounts loaded")
	return accounts
}

// SaveAccounts replaces the stored collection.
func (r *AccountRepository) SaveAccounts(ctx context.Context, accounts []*model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"blob":  r.blobName,
		"count": len(accounts),
	})

	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("could not encode accounts: %w", err)
	}
	if err := r.store.Save(ctx, r.blobName, data); err != nil {
		log.WithError(err).Error("Failed to save accounts")
		return err
	}

	log.Debug("Accounts saved")
	return nil
}
