package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External collaborators
	MarketData MarketDataConfig
	Discord    DiscordConfig

	// Strategy
	Strategy StrategyConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketDataConfig holds the fundamentals provider configuration
type MarketDataConfig struct {
	BaseURL string
	APIKey  string

	// Requests per second against the provider
	RateLimit float64
}

// DiscordConfig holds the webhook notifier configuration
type DiscordConfig struct {
	WebhookURL string
	Enabled    bool
}

// StrategyConfig holds tunable pipeline parameters
type StrategyConfig struct {
	// Watchlist is the default scan set; Universe the full one
	Watchlist []string
	Universe  []string

	// Budget is the baseline portfolio size for Trader sizing
	Budget float64

	// ScheduleSpec is the daily pipeline cron expression (with seconds)
	ScheduleSpec string
	Timezone     string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		MarketData: MarketDataConfig{
			BaseURL:   getEnv("MARKETDATA_BASE_URL", "https://query1.finance.yahoo.com"),
			APIKey:    getEnv("MARKETDATA_API_KEY", ""),
			RateLimit: getEnvAsFloat("MARKETDATA_RATE_LIMIT", 2.0),
		},

		Discord: DiscordConfig{
			WebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
			Enabled:    getEnv("DISCORD_WEBHOOK_URL", "") != "",
		},

		Strategy: StrategyConfig{
			Watchlist: getEnvAsList("WATCHLIST", "NVDA,PLTR,ASML,LLY,COST,AVGO"),
			Universe: getEnvAsList("SCAN_UNIVERSE",
				"AAPL,MSFT,GOOGL,AMZN,META,NVDA,TSLA,AMD,AVGO,QCOM,"+
					"JPM,V,MA,UNH,LLY,ABBV,CAT,HON,GE,COST,WMT,HD,"+
					"XOM,CVX,PLTR,SNOW,CRWD,NET,DDOG,PANW"),
			Budget:       getEnvAsFloat("BASELINE_BUDGET", 10000),
			ScheduleSpec: getEnv("PIPELINE_SCHEDULE", "0 5 12 * * *"),
			Timezone:     getEnv("PIPELINE_TIMEZONE", "America/Chicago"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Strategy.Budget <= 0 {
		return fmt.Errorf("BASELINE_BUDGET must be positive")
	}

	if len(c.Strategy.Watchlist) == 0 {
		return fmt.Errorf("WATCHLIST must not be empty")
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
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

func getEnvAsList(key string, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
