package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	MetricsAPI MetricsAPIConfig
	Poll       PollConfig
	Reset      ResetConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host string
	Port string
	Env  string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MetricsAPIConfig holds the backend metrics API configuration
type MetricsAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PollConfig holds refresh cadences for the backend data sources
type PollConfig struct {
	StatusInterval         time.Duration
	SummaryInterval        time.Duration
	CapitalInterval        time.Duration
	ReconciliationInterval time.Duration
}

// ResetConfig holds the two-step reset confirmation settings
type ResetConfig struct {
	ConfirmTTL time.Duration
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute         int
	MutationRequestsPerMinute int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8090"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		MetricsAPI: MetricsAPIConfig{
			BaseURL: getEnv("METRICS_API_URL", ""),
			Timeout: time.Duration(getEnvAsInt("METRICS_API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Poll: PollConfig{
			StatusInterval:         time.Duration(getEnvAsInt("POLL_STATUS_SECONDS", 15)) * time.Second,
			SummaryInterval:        time.Duration(getEnvAsInt("POLL_SUMMARY_SECONDS", 30)) * time.Second,
			CapitalInterval:        time.Duration(getEnvAsInt("POLL_CAPITAL_SECONDS", 60)) * time.Second,
			ReconciliationInterval: time.Duration(getEnvAsInt("POLL_RECONCILIATION_SECONDS", 60)) * time.Second,
		},
		Reset: ResetConfig{
			ConfirmTTL: time.Duration(getEnvAsInt("RESET_CONFIRM_TTL_SECONDS", 30)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}, ","),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute:         getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
			MutationRequestsPerMinute: getEnvAsInt("RATE_LIMIT_MUTATION_REQUESTS_PER_MINUTE", 10),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required fields
	if cfg.MetricsAPI.BaseURL == "" {
		return nil, fmt.Errorf("METRICS_API_URL is required")
	}

	return cfg, nil
}

// Address returns the full server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction returns true if running in production mode
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string, separator string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, separator)
}
