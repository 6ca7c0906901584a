package db

import (
	"errors"
	"fmt"
	"go-bank-ledger/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies every pending migration under migrationPath
// (a file:// URL) to the database at connURL.
func RunMigrations(migrationPath, connURL string) error {
	log := logger.Log.WithField("migrations", migrationPath)
	log.Info("Running database migrations")

	mig, err := migrate.New(migrationPath, connURL)
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}
	defer mig.Close()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrate up: %w", err)
	}

	log.Info("Database schema is up to date")
	return nil
}
