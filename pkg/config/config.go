package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
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

	// Data providers
	FRED  FREDConfig
	NYFed NYFedConfig

	// Scoring
	Scoring ScoringConfig

	// Alerts
	SMTP   SMTPConfig
	Alerts AlertConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// FREDConfig holds FRED (St. Louis Fed) download configuration
type FREDConfig struct {
	BaseURL        string
	Timeout        time.Duration
	CacheTTL       time.Duration
	RequestsPerMin int
	Workers        int
}

// NYFedConfig holds New York Fed markets API configuration
type NYFedConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// ScoringConfig points at the scoring YAML. Empty path means built-in defaults.
type ScoringConfig struct {
	ConfigPath   string
	LiveLookback time.Duration
	WarmUp       time.Duration // 시작일 이전 관측치 조회 구간 (as-of 값 이월)
}

// SMTPConfig holds outgoing mail configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// AlertConfig holds alert delivery configuration
type AlertConfig struct {
	Recipient string
	Enabled   bool
}

// SchedulerConfig holds cron configuration
type SchedulerConfig struct {
	Timezone       string
	LiveUpdateCron string
	AlertCheckCron string
	CacheCleanCron string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "liquidity"),
			User:            getEnv("DB_USER", "liquidity"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Data providers
		FRED: FREDConfig{
			BaseURL:        getEnv("FRED_BASE_URL", "https://fred.stlouisfed.org/graph/fredgraph.csv"),
			Timeout:        getEnvAsDuration("FRED_TIMEOUT", "15s"),
			CacheTTL:       getEnvAsDuration("FRED_CACHE_TTL", "5m"),
			RequestsPerMin: getEnvAsInt("FRED_REQUESTS_PER_MIN", 60),
			Workers:        getEnvAsInt("FRED_WORKERS", 4),
		},

		NYFed: NYFedConfig{
			BaseURL:  getEnv("NYFED_BASE_URL", "https://markets.newyorkfed.org"),
			Timeout:  getEnvAsDuration("NYFED_TIMEOUT", "15s"),
			CacheTTL: getEnvAsDuration("NYFED_CACHE_TTL", "24h"),
		},

		Scoring: ScoringConfig{
			ConfigPath:   getEnv("SCORING_CONFIG_PATH", ""),
			LiveLookback: getEnvAsDuration("SCORING_LIVE_LOOKBACK", "4320h"), // 180일
			WarmUp:       getEnvAsDuration("SCORING_WARM_UP", "2160h"),       // 90일
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			FromName: getEnv("SMTP_FROM_NAME", "Global Liquidity Monitor"),
		},

		Alerts: AlertConfig{
			Recipient: getEnv("ALERT_RECIPIENT", ""),
			Enabled:   getEnvAsBool("ALERTS_ENABLED", false),
		},

		Scheduler: SchedulerConfig{
			Timezone:       getEnv("SCHEDULER_TZ", "America/New_York"),
			LiveUpdateCron: getEnv("SCHEDULER_LIVE_UPDATE", "0 0 17 * * *"),
			AlertCheckCron: getEnv("SCHEDULER_ALERT_CHECK", "0 0 */2 * * *"),
			CacheCleanCron: getEnv("SCHEDULER_CACHE_CLEANUP", "0 */5 * * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.FRED.Workers < 1 {
		return fmt.Errorf("FRED_WORKERS must be >= 1")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TZ invalid: %w", err)
	}

	return nil
}

// MailConfigured reports whether SMTP delivery has the minimum settings
func (c *Config) MailConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.From != "" && c.Alerts.Recipient != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations.
// ENV_FILE, when set, is tried first.
func loadEnvFile() {
	paths := []string{
		".env",
	}
	if explicit := os.Getenv("ENV_FILE"); explicit != "" {
		paths = append([]string{explicit}, paths...)
	}

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
