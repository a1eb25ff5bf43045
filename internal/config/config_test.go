package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptions/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, config.StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "adoption_records", cfg.Store.RecordKey)
	assert.Equal(t, time.Second, cfg.Queue.ItemDelay)
	assert.Equal(t, 1, cfg.Queue.Concurrency)
	assert.Equal(t, "gpt-4o-mini", cfg.Parser.DefaultModel)
	assert.Equal(t, int64(20*1024*1024), cfg.Extractor.MaxFileSizeBytes())
	assert.False(t, cfg.S3.Enabled())
	assert.Empty(t, cfg.Parser.Providers())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADOPT_STORE_BACKEND", "Redis")
	t.Setenv("ADOPT_QUEUE_ITEM_DELAY", "250ms")
	t.Setenv("ADOPT_QUEUE_CONCURRENCY", "0")
	t.Setenv("ADOPT_PARSER_PRIMARY_PROVIDER", "claude")
	t.Setenv("ADOPT_PARSER_PRIMARY_API_KEY", "sk-primary")
	t.Setenv("ADOPT_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Queue.ItemDelay)
	assert.Equal(t, 1, cfg.Queue.Concurrency, "concurrency is clamped to one")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)

	providers := cfg.Parser.Providers()
	require.Len(t, providers, 1)
	assert.Equal(t, "claude", providers[0].Provider)
	assert.Equal(t, 2000, providers[0].MaxTokens)
}

func TestLoad_PortFromPlatform(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Port)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("ADOPT_STORE_BACKEND", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_BackupRequiresBucket(t *testing.T) {
	t.Setenv("ADOPT_BACKUP_ENABLED", "true")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("ADOPT_S3_BUCKET", "adoptions")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Backup.Enabled)
}

func TestParserConfig_Providers_Order(t *testing.T) {
	cfg := config.ParserConfig{
		Primary:   config.ParserProviderConfig{Provider: "openai", APIKey: "a"},
		Secondary: config.ParserProviderConfig{Provider: "gemini"},
		Tertiary:  config.ParserProviderConfig{Provider: "claude", APIKey: "c"},
	}

	providers := cfg.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, "openai", providers[0].Provider)
	assert.Equal(t, "claude", providers[1].Provider)
}
