package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-bank-ledger/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// blobRecord mirrors the ledger_blobs table used by the Postgres store.
type blobRecord struct {
	Name      string `gorm:"primaryKey"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (blobRecord) TableName() string { return "ledger_blobs" }

// SQLiteBlobStore keeps blobs in a local SQLite database through gorm.
type SQLiteBlobStore struct {
	db *gorm.DB
}

// NewSQLiteBlobStore migrates the blob table and returns the store.
func NewSQLiteBlobStore(db *gorm.DB) (*SQLiteBlobStore, error) {
	if err := db.AutoMigrate(&blobRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLiteBlobStore{db: db}, nil
}

func (s *SQLiteBlobStore) Load(ctx context.Context, name string) ([]byte, error) {
	var rec blobRecord
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlobNotFound
		}
		logger.Log.WithError(err).WithField("blob", name).Error("Failed to load blob from sqlite")
		return nil, fmt.Errorf("failed to load blob %s: %w", name, err)
	}
	return rec.Payload, nil
}

func (s *SQLiteBlobStore) Save(ctx context.Context, name string, data []byte) error {
	rec := blobRecord{Name: name, Payload: data, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		logger.Log.WithError(err).WithField("blob", name).Error("Failed to save blob to sqlite")
		return fmt.Errorf("failed to save blob %s: %w", name, err)
	}
	return nil
}
