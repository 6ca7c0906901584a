package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-bank-ledger/logger"

	"github.com/sirupsen/logrus"
)

const (
	selectBlobQuery = `SELECT payload FROM ledger_blobs WHERE name = $1`
	upsertBlobQuery = `INSERT INTO ledger_blobs (name, payload, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
)

// PostgresBlobStore keeps blobs as rows of the ledger_blobs table.
type PostgresBlobStore struct {
	DB *sql.DB
}

func NewPostgresBlobStore(db *sql.DB) *PostgresBlobStore {
	return &PostgresBlobStore{DB: db}
}

func (s *PostgresBlobStore) Load(ctx context.Context, name string) ([]byte, error) {
	log := logger.Log.WithField("blob", name)
	log.Debug("Executing query to load blob")

	var payload []byte
	err := s.DB.QueryRowContext(ctx, selectBlobQuery, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlobNotFound
		}
		log.WithError(err).Error("Failed to execute load blob query")
		return nil, fmt.Errorf("could not load blob %s: %w", name, err)
	}
	return payload, nil
}

func (s *PostgresBlobStore) Save(ctx context.Context, name string, data []byte) error {
	log := logger.Log.WithFields(logrus.Fields{
		"blob":  name,
		"bytes": len(data),
	})
	log.Debug("Executing query to save blob")

	if _, err := s.DB.ExecContext(ctx, upsertBlobQuery, name, data); err != nil {
		log.WithError(err).Error("Failed to execute save blob query")
		return fmt.Errorf("could not save blob %s: %w", name, err)
	}
	return nil
}
