package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Tournament
	MAPeriod            int // moving-average window in weeks
	UpdateIntervalHours int // scheduled refresh cadence

	// Universe sizing
	SP500Limit           int
	ETFLimit             int
	CryptoLimit          int
	CryptoTopForBigBoard int

	// Refresh behavior
	FetchConcurrency int           // parallel provider fetches per refresh
	RefreshTimeout   time.Duration // hard bound on one refresh cycle

	// External APIs
	Massive       MassiveConfig
	CoinCap       CoinCapConfig
	CryptoCompare CryptoCompareConfig

	// Redis
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// MassiveConfig holds the equities/ETF provider configuration.
type MassiveConfig struct {
	APIKey  string
	BaseURL string
}

// CoinCapConfig holds the primary crypto provider configuration.
type CoinCapConfig struct {
	BaseURL string
}

// CryptoCompareConfig holds the fallback crypto provider configuration.
type CryptoCompareConfig struct {
	BaseURL string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Tournament
		MAPeriod:            getEnvAsInt("MA_PERIOD", 20),
		UpdateIntervalHours: getEnvAsInt("UPDATE_INTERVAL_HOURS", 1),

		// Universe sizing
		SP500Limit:           getEnvAsInt("SP500_LIMIT", 500),
		ETFLimit:             getEnvAsInt("ETF_LIMIT", 100),
		CryptoLimit:          getEnvAsInt("CRYPTO_LIMIT", 200),
		CryptoTopForBigBoard: getEnvAsInt("CRYPTO_TOP_FOR_BIGBOARD", 20),

		// Refresh behavior
		FetchConcurrency: getEnvAsInt("FETCH_CONCURRENCY", 8),
		RefreshTimeout:   getEnvAsDuration("REFRESH_TIMEOUT", "5m"),

		// External APIs
		Massive: MassiveConfig{
			APIKey:  getEnv("MASSIVE_API_KEY", ""),
			BaseURL: getEnv("MASSIVE_BASE_URL", "https://api.polygon.io"),
		},
		CoinCap: CoinCapConfig{
			BaseURL: getEnv("COINCAP_BASE_URL", "https://api.coincap.io/v2"),
		},
		CryptoCompare: CryptoCompareConfig{
			BaseURL: getEnv("CRYPTOCOMPARE_BASE_URL", "https://min-api.cryptocompare.com/data/v2"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.MAPeriod < 2 {
		return fmt.Errorf("MA_PERIOD must be at least 2, got %d", c.MAPeriod)
	}

	if c.UpdateIntervalHours < 1 {
		return fmt.Errorf("UPDATE_INTERVAL_HOURS must be at least 1, got %d", c.UpdateIntervalHours)
	}

	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", c.FetchConcurrency)
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
