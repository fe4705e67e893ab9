package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	StoreBackend   string
	CatalogBackend string
	LockBackend    string
	LockTTL        time.Duration
	RedisAddr      string

	TaxRate         float64
	BulkConcurrency int
	LogLevel        string

	OutboxSchedule     string
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxClaimTimeout time.Duration

	NotifierURL  string
	InventoryURL string
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads envFile when it exists, then the process environment.
// Environment variables win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "orders")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("CATALOG_BACKEND", "")
	v.SetDefault("LOCK_BACKEND", BackendMemory)
	v.SetDefault("LOCK_TTL", "30s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("TAX_RATE", 0.0)
	v.SetDefault("BULK_CONCURRENCY", 8)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OUTBOX_SCHEDULE", "")
	v.SetDefault("OUTBOX_BATCH_SIZE", 50)
	v.SetDefault("OUTBOX_MAX_ATTEMPTS", 5)
	v.SetDefault("OUTBOX_CLAIM_TIMEOUT", "1m")
	v.SetDefault("NOTIFIER_URL", "")
	v.SetDefault("INVENTORY_URL", "")

	lockTTL, err := time.ParseDuration(v.GetString("LOCK_TTL"))
	if err != nil {
		return Config{}, fmt.Errorf("LOCK_TTL: %w", err)
	}
	claimTimeout, err := time.ParseDuration(v.GetString("OUTBOX_CLAIM_TIMEOUT"))
	if err != nil {
		return Config{}, fmt.Errorf("OUTBOX_CLAIM_TIMEOUT: %w", err)
	}

	cfg := Config{
		HTTPPort:           v.GetString("HTTP_PORT"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSslMode:          v.GetString("DB_SSLMODE"),
		StoreBackend:       strings.ToLower(v.GetString("STORE_BACKEND")),
		CatalogBackend:     strings.ToLower(v.GetString("CATALOG_BACKEND")),
		LockBackend:        strings.ToLower(v.GetString("LOCK_BACKEND")),
		LockTTL:            lockTTL,
		RedisAddr:          v.GetString("REDIS_ADDR"),
		TaxRate:            v.GetFloat64("TAX_RATE"),
		BulkConcurrency:    v.GetInt("BULK_CONCURRENCY"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		OutboxSchedule:     v.GetString("OUTBOX_SCHEDULE"),
		OutboxBatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
		OutboxMaxAttempts:  v.GetInt("OUTBOX_MAX_ATTEMPTS"),
		OutboxClaimTimeout: claimTimeout,
		NotifierURL:        v.GetString("NOTIFIER_URL"),
		InventoryURL:       v.GetString("INVENTORY_URL"),
	}
	// The catalog follows the store unless set explicitly.
	if cfg.CatalogBackend == "" {
		cfg.CatalogBackend = cfg.StoreBackend
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if c.StoreBackend != BackendMemory && c.StoreBackend != BackendPostgres {
		errs = append(errs, fmt.Errorf("STORE_BACKEND: unsupported %q", c.StoreBackend))
	}
	if c.CatalogBackend != BackendMemory && c.CatalogBackend != BackendPostgres {
		errs = append(errs, fmt.Errorf("CATALOG_BACKEND: unsupported %q", c.CatalogBackend))
	}
	if c.LockBackend != BackendMemory && c.LockBackend != BackendRedis {
		errs = append(errs, fmt.Errorf("LOCK_BACKEND: unsupported %q", c.LockBackend))
	}
	if c.TaxRate < 0 || c.TaxRate > 1 {
		errs = append(errs, fmt.Errorf("TAX_RATE: %v is outside [0, 1]", c.TaxRate))
	}
	if c.OutboxBatchSize < 1 {
		errs = append(errs, errors.New("OUTBOX_BATCH_SIZE: must be positive"))
	}
	return errors.Join(errs...)
}
