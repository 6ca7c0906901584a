package db

import (
	"context"
	"fmt"
	"net"

	"go-bank-ledger/config"
	"go-bank-ledger/logger"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ConnectRedis returns a client for the statement cache. A cache that does
// not answer within the ping timeout is reported as an error so the caller
// can run without it.
func ConnectRedis(ctx context.Context) (*redis.Client, error) {
	cfg := config.AppConfig.Redis
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	log := logger.Log.WithFields(logrus.Fields{"address": addr, "db": cfg.DB})

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: pingTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Statement cache unreachable")
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("Statement cache connected")
	return client, nil
}
