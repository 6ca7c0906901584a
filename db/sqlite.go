// file: db/sqlite.go

package db

import (
	"fmt"
	"os"
	"path/filepath"

	"go-bank-ledger/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Log.WithError(err).WithField("path", path).Error("Failed to open sqlite database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Log.WithField("path", path).Info("SQLite database opened")
	return gdb, nil
}
