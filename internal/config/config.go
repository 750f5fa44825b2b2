// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Phermidex/zenithCrypto/pkg/db" // Import db package for its Config struct
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort  string
	LogLevel    string
	StoreDriver string
	DB          db.Config
	JWTSecret   string

	FiatCurrency  string
	AssetPrices   map[string]decimal.Decimal // keyed by upper-case symbol
	PriceCacheTTL time.Duration
	QuoteTTL      time.Duration

	RedisAddr    string   // empty keeps quotes in memory
	KafkaBrokers []string // empty disables the Kafka sink
	KafkaTopic   string

	ConflictMaxRetries int
	ConflictRetryDelay time.Duration
}

// LoadConfig loads configuration from environment variables, after reading
// a local .env file if one exists. Variables already set in the process win.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	storeDriver := strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres))
	if storeDriver != StoreDriverPostgres && storeDriver != StoreDriverMemory {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want %s or %s", storeDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	prices, err := ParseAssetPrices(getEnv("ASSET_PRICES", "BTC=60000,ETH=3000,SOL=150"))
	if err != nil {
		return nil, fmt.Errorf("invalid ASSET_PRICES: %w", err)
	}

	priceCacheTTL, err := time.ParseDuration(getEnv("PRICE_CACHE_TTL", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_CACHE_TTL: %w", err)
	}
	quoteTTL, err := time.ParseDuration(getEnv("QUOTE_TTL", "30s"))
	if err != nil || quoteTTL <= 0 {
		return nil, fmt.Errorf("invalid QUOTE_TTL %q", os.Getenv("QUOTE_TTL"))
	}

	maxRetries, err := strconv.Atoi(getEnv("CONFLICT_MAX_RETRIES", "3"))
	if err != nil || maxRetries < 0 {
		return nil, fmt.Errorf("invalid CONFLICT_MAX_RETRIES %q", os.Getenv("CONFLICT_MAX_RETRIES"))
	}
	retryDelay, err := time.ParseDuration(getEnv("CONFLICT_RETRY_DELAY", "25ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONFLICT_RETRY_DELAY: %w", err)
	}

	return &AppConfig{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StoreDriver: storeDriver,
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "zenithdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWTSecret:          jwtSecret,
		FiatCurrency:       strings.ToUpper(getEnv("FIAT_CURRENCY", "USD")),
		AssetPrices:        prices,
		PriceCacheTTL:      priceCacheTTL,
		QuoteTTL:           quoteTTL,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "ledger.transactions"),
		ConflictMaxRetries: maxRetries,
		ConflictRetryDelay: retryDelay,
	}, nil
}

// ParseAssetPrices parses "BTC=60000,ETH=3000" into a price table.
func ParseAssetPrices(raw string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	for _, pair := range splitList(raw) {
		symbol, value, ok := strings.Cut(pair, "=")
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if !ok || symbol == "" {
			return nil, fmt.Errorf("malformed entry %q", pair)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("price of %s: %w", symbol, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("price of %s must be positive", symbol)
		}
		prices[symbol] = price
	}
	return prices, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
