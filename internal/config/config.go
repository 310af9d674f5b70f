package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

const (
	defaultAppName       = "PaperTrade"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultBackend       = BackendMemory
	defaultDataFile      = "/tmp/papertrade_wallets.json"
	defaultTradeMode     = "commission"
	defaultShutdownDelay = 10 * time.Second
	defaultIdemTTL       = 24 * time.Hour
	defaultCookieMaxAge  = 30 * 24 * time.Hour

	defaultSeedQuote      = "100.00"
	defaultMinNotional    = "10.00"
	defaultCommissionRate = "0.001"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	Port     string
	LogLevel string

	// StoreBackend selects where wallets live: memory, file, redis or postgres.
	StoreBackend string
	DataFile     string
	DatabaseURL  string
	RedisURL     string

	// TradeMode is "commission" or "simple"; see the engine package for the
	// two amount conventions.
	TradeMode      string
	CommissionRate decimal.Decimal
	MinNotional    decimal.Decimal
	SeedQuote      decimal.Decimal

	CookieMaxAge   time.Duration
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", defaultBackend)),
		DataFile:       getEnv("DATA_FILE", defaultDataFile),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		TradeMode:      strings.ToLower(getEnv("TRADE_MODE", defaultTradeMode)),
		CookieMaxAge:   defaultCookieMaxAge,
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdemTTL,
	}

	var err error
	if cfg.SeedQuote, err = decimalEnv("SEED_QUOTE_BALANCE", defaultSeedQuote); err != nil {
		return Config{}, err
	}
	if cfg.MinNotional, err = decimalEnv("MIN_TRADE_NOTIONAL", defaultMinNotional); err != nil {
		return Config{}, err
	}
	if cfg.CommissionRate, err = decimalEnv("COMMISSION_RATE", defaultCommissionRate); err != nil {
		return Config{}, err
	}

	if cfg.SeedQuote.IsNegative() {
		return Config{}, fmt.Errorf("SEED_QUOTE_BALANCE must not be negative")
	}
	if cfg.CommissionRate.IsNegative() || cfg.CommissionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Config{}, fmt.Errorf("COMMISSION_RATE must be in [0, 1)")
	}

	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", "IDEMPOTENCY_TTL_SECONDS", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("COOKIE_MAX_AGE_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return Config{}, fmt.Errorf("invalid COOKIE_MAX_AGE_DAYS: %q", v)
		}
		cfg.CookieMaxAge = time.Duration(days) * 24 * time.Hour
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when STORE_BACKEND=redis")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when STORE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.TradeMode {
	case "commission", "simple":
	default:
		return Config{}, fmt.Errorf("unknown TRADE_MODE %q", cfg.TradeMode)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	raw := getEnv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func durationEnv(durKey, secondsKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durKey, err)
		}
		return d, nil
	}
	return fallback, nil
}
