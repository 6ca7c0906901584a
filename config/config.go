package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by the composition root.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// PIN hashing modes.
const (
	PinHashingPlain  = "plain"
	PinHashingBcrypt = "bcrypt"
)

type Config struct {
	Storage struct {
		Driver           string `mapstructure:"driver"`
		DataDir          string `mapstructure:"data_dir"`
		AccountsBlob     string `mapstructure:"accounts_blob"`
		TransactionsBlob string `mapstructure:"transactions_blob"`
	} `mapstructure:"storage"`
	Database struct {
		Host       string `mapstructure:"host"`
		Port       int    `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		Name       string `mapstructure:"name"`
		SSLMode    string `mapstructure:"sslmode"`
		Migrations string `mapstructure:"migrations"`
	} `mapstructure:"database"`
	SQLite struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"sqlite"`
	Redis struct {
		Enabled  bool          `mapstructure:"enabled"`
		Host     string        `mapstructure:"host"`
		Port     string        `mapstructure:"port"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`
	Security struct {
		PinHashing string `mapstructure:"pin_hashing"`
		BcryptCost int    `mapstructure:"bcrypt_cost"`
	} `mapstructure:"security"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("storage.driver", DriverFile)
	viper.SetDefault("storage.data_dir", "data")
	viper.SetDefault("storage.accounts_blob", "accounts.json")
	viper.SetDefault("storage.transactions_blob", "transactions.json")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.name", "ledger")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.migrations", "file://db/migrations")

	viper.SetDefault("sqlite.path", filepath.Join("data", "ledger.db"))

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "10m")

	viper.SetDefault("security.pin_hashing", PinHashingPlain)
	viper.SetDefault("security.bcrypt_cost", 10)

	viper.SetDefault("log.level", "info")
}

// LoadConfig reads config.yml from path (optional), a .env file from the same
// directory (optional) and LEDGER_* environment variables, in rising priority.
func LoadConfig(path string) error {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load .env file: %w", err)
	}

	viper.Reset()
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetEnvPrefix("LEDGER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode into struct: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverFile, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	switch cfg.Security.PinHashing {
	case PinHashingPlain, PinHashingBcrypt:
	default:
		return fmt.Errorf("unsupported pin hashing mode %q", cfg.Security.PinHashing)
	}

	AppConfig = cfg
	return nil
}
