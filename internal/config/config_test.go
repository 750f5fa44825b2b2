// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "USD", cfg.FiatCurrency)
	assert.Equal(t, 30*time.Second, cfg.QuoteTTL)
	assert.Equal(t, 3, cfg.ConflictMaxRetries)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.True(t, cfg.AssetPrices["BTC"].Equal(decimal.NewFromInt(60000)))
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("FIAT_CURRENCY", "eur")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CONFLICT_RETRY_DELAY", "5ms")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, "EUR", cfg.FiatCurrency)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Millisecond, cfg.ConflictRetryDelay)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"MissingSecret": {"JWT_SECRET": ""},
		"BadPort":       {"DB_PORT": "abc"},
		"BadDriver":     {"STORE_DRIVER": "mongo"},
		"BadPrices":     {"ASSET_PRICES": "BTC"},
		"BadQuoteTTL":   {"QUOTE_TTL": "0s"},
		"BadRetries":    {"CONFLICT_MAX_RETRIES": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()

			assert.Error(t, err)
		})
	}
}

func TestParseAssetPrices(t *testing.T) {
	prices, err := ParseAssetPrices(" btc = 60000.5 , SOL=150")
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.True(t, prices["BTC"].Equal(decimal.RequireFromString("60000.5")))

	_, err = ParseAssetPrices("ETH=-1")
	assert.Error(t, err)
	_, err = ParseAssetPrices("ETH=abc")
	assert.Error(t, err)
}
