package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, BackendMemory, cfg.CatalogBackend)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, time.Minute, cfg.OutboxClaimTimeout)
	assert.Equal(t, 50, cfg.OutboxBatchSize)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=orders sslmode=disable", cfg.DSN())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("LOCK_TTL", "5s")
	t.Setenv("TAX_RATE", "0.2")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "9")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, BackendPostgres, cfg.CatalogBackend)
	assert.Equal(t, BackendRedis, cfg.LockBackend)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
	assert.InDelta(t, 0.2, cfg.TaxRate, 1e-9)
	assert.Equal(t, 9, cfg.OutboxMaxAttempts)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=9191\n"), 0o600))
	// Restores the variable after godotenv has set it.
	t.Setenv("HTTP_PORT", "")
	require.NoError(t, os.Unsetenv("HTTP_PORT"))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.HTTPPort)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"STORE_BACKEND", "mongo", "STORE_BACKEND"},
		{"LOCK_BACKEND", "etcd", "LOCK_BACKEND"},
		{"LOCK_TTL", "soon", "LOCK_TTL"},
		{"OUTBOX_CLAIM_TIMEOUT", "10", "OUTBOX_CLAIM_TIMEOUT"},
		{"TAX_RATE", "1.5", "TAX_RATE"},
		{"OUTBOX_BATCH_SIZE", "0", "OUTBOX_BATCH_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
