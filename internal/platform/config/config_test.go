package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"ORGANMATCH_ADDR", "STORE_BACKEND", "LEDGER_BACKEND", "KAFKA_BROKERS", "COMMIT_TIMEOUT", "REDIS_URL"} {
		t.Setenv(k, "")
	}
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, BackendMemory, cfg.LedgerBackend)
	assert.Equal(t, 5*time.Second, cfg.CommitTimeout)
	assert.Equal(t, "transplants.committed", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("COMMIT_TIMEOUT", "250ms")
	t.Setenv("LEDGER_BACKEND", "sqlite")
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 250*time.Millisecond, cfg.CommitTimeout)
	assert.Equal(t, BackendSQLite, cfg.LedgerBackend)
}

func TestFromEnvRejectsInvalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("COMMIT_TIMEOUT", "soon")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "COMMIT_TIMEOUT")
	})

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("unknown ledger backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "memory")
		t.Setenv("LEDGER_BACKEND", "paper")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "LEDGER_BACKEND")
	})
}
