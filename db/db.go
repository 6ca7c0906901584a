package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go-bank-ledger/config"
	"go-bank-ledger/logger"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// The ledger writes two blobs per commit, so a small pool is plenty.
const (
	maxOpenConns    = 4
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// ConnString builds the lib/pq keyword/value DSN for the configured database.
func ConnString() string {
	cfg := config.AppConfig.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// MigrationURL builds the postgres:// URL golang-migrate expects.
func MigrationURL() string {
	cfg := config.AppConfig.Database
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=" + url.QueryEscape(cfg.SSLMode),
	}
	return u.String()
}

// Connect opens the ledger's Postgres database and verifies it answers.
func Connect(ctx context.Context) (*sql.DB, error) {
	cfg := config.AppConfig.Database
	log := logger.Log.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.Name,
		"user":     cfg.User,
	})
	log.Info("Connecting to ledger database")

	database, err := sql.Open("postgres", ConnString())
	if err != nil {
		log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	database.SetMaxOpenConns(maxOpenConns)
	database.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		log.WithError(err).Error("Ledger database did not answer ping")
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Ledger database ready")
	return database, nil
}
