package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"go-bank-ledger/common"
	"go-bank-ledger/config"
	"go-bank-ledger/db"
	"go-bank-ledger/handler"
	"go-bank-ledger/logger"
	"go-bank-ledger/repository"
	"go-bank-ledger/router"
	"go-bank-ledger/service"
)

// App holds the wired ledger for one process.
type App struct {
	Router       *router.Router
	Accounts     *service.AccountService
	Transactions *service.TransactionService

	closers []func() error
}

// Close releases backend connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Log.WithError(err).Warn("Failed to close backend connection")
		}
	}
}

// Run executes one command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	inv, err := router.ParseArgs(args)
	if err != nil {
		usage := router.NewRouter(nil, nil, nil, nil)
		if errors.Is(err, router.ErrHelp) {
			usage.PrintUsage(stdout)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		usage.PrintUsage(stderr)
		return common.CodeInvalidInput
	}

	logger.Init()
	if err := config.LoadConfig(inv.ConfigPath); err != nil {
		logger.Log.WithError(err).Error("Failed to load configuration")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return common.CodeInternal
	}
	level := config.AppConfig.Log.Level
	if inv.LogLevel != "" {
		level = inv.LogLevel
	}
	logger.SetLevel(level)
	logger.Log.WithField("command", inv.Command).Debug("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := Build(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to start ledger")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return common.CodeInternal
	}
	defer a.Close()

	return a.Router.Dispatch(ctx, stdout, stderr, inv)
}

// Build wires every layer from config.AppConfig.
func Build(ctx context.Context) (*App, error) {
	cfg := config.AppConfig
	var closers []func() error
	var checks []handler.HealthCheck
	var store repository.IBlobStore

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		database, err := db.Connect(ctx)
		if err != nil {
			return nil, err
		}
		closers = append(closers, database.Close)
		if err := db.RunMigrations(cfg.Database.Migrations, db.MigrationURL()); err != nil {
			database.Close()
			return nil, err
		}
		store = repository.NewPostgresBlobStore(database)
		checks = append(checks, handler.HealthCheck{Name: "postgres", Check: database.PingContext})

	case config.DriverSQLite:
		gdb, err := db.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		closers = append(closers, sqlDB.Close)
		sqliteStore, err := repository.NewSQLiteBlobStore(gdb)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		store = sqliteStore
		checks = append(checks, handler.HealthCheck{Name: "sqlite", Check: sqlDB.PingContext})

	default:
		dir := cfg.Storage.DataDir
		store = repository.NewFileBlobStore(dir)
		checks = append(checks, handler.HealthCheck{Name: "storage", Check: func(context.Context) error {
			return os.MkdirAll(dir, 0o755)
		}})
	}

	var cache service.ICacheClient
	if cfg.Redis.Enabled {
		client, err := db.ConnectRedis(ctx)
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, statement cache disabled")
		} else {
			cache = client
			closers = append(closers, client.Close)
			checks = append(checks, handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}})
		}
	}

	a := newApp(ctx, store, cache, pinVerifier(), checks...)
	a.closers = closers
	return a, nil
}

// NewTestApp wires the ledger over store without any external backend.
func NewTestApp(store repository.IBlobStore) *App {
	return newApp(context.Background(), store, nil, service.PlainPinVerifier{})
}

func newApp(ctx context.Context, store repository.IBlobStore, cache service.ICacheClient, pins service.IPinVerifier, checks ...handler.HealthCheck) *App {
	cfg := config.AppConfig
	accountsBlob := orDefault(cfg.Storage.AccountsBlob, "accounts.json")
	transactionsBlob := orDefault(cfg.Storage.TransactionsBlob, "transactions.json")

	// --- Wiring All Layers Together ---
	transactionRepo := repository.NewTransactionRepository(store, transactionsBlob)
	transactionService := service.NewTransactionService(ctx, transactionRepo, cache, cfg.Redis.TTL, cacheNamespace(cfg))
	transactionHandler := handler.NewTransactionHandler(transactionService)

	accountRepo := repository.NewAccountRepository(store, accountsBlob)
	accountService := service.NewAccountService(ctx, accountRepo, transactionService, pins)
	accountHandler := handler.NewAccountHandler(accountService)

	healthHandler := handler.NewHealthHandler(accountService, transactionService, checks...)

	return &App{
		Router:       router.NewRouter(accountService, accountHandler, transactionHandler, healthHandler),
		Accounts:     accountService,
		Transactions: transactionService,
	}
}

func pinVerifier() service.IPinVerifier {
	if config.AppConfig.Security.PinHashing == config.PinHashingBcrypt {
		return service.NewBcryptPinVerifier(config.AppConfig.Security.BcryptCost)
	}
	return service.PlainPinVerifier{}
}

// cacheNamespace identifies the backing store so ledgers sharing one Redis
// never read each other's statements.
func cacheNamespace(cfg config.Config) string {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return "ledger:postgres:" + cfg.Database.Host + ":" + strconv.Itoa(cfg.Database.Port) + "/" + cfg.Database.Name
	case config.DriverSQLite:
		return "ledger:sqlite:" + absPath(cfg.SQLite.Path)
	default:
		return "ledger:file:" + absPath(cfg.Storage.DataDir)
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
