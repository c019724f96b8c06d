package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Search    SearchConfig
	Session   SessionConfig
	Analytics AnalyticsConfig
	Logging   LoggingConfig
	OpenAI    OpenAIConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// CatalogConfig holds the listing catalog and reservation log locations
type CatalogConfig struct {
	ListingsPath     string
	ReservationsPath string
	Timezone         string
}

// SearchConfig holds recommendation configuration
type SearchConfig struct {
	DefaultTopK int
	MaxTopK     int
}

// SessionConfig holds conversation session configuration
type SessionConfig struct {
	IdleTimeout time.Duration
}

// AnalyticsConfig holds the optional Postgres analytics sidecar
// configuration. Analytics is enabled only when a DSN is provided.
type AnalyticsConfig struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// OpenAIConfig holds the slot-extraction model configuration
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatMaxTokens   int
	Timeout         int
	RateLimit       float64
	RateBurst       int
	Enabled         bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Catalog: CatalogConfig{
			ListingsPath:     getEnv("LISTINGS_CSV", "listings.csv"),
			ReservationsPath: getEnv("RESERVATIONS_CSV", "reservations.csv"),
			Timezone:         getEnv("BOOKING_TIMEZONE", "America/Montreal"),
		},
		Search: SearchConfig{
			DefaultTopK: getEnvAsInt("SEARCH_DEFAULT_TOP_K", 5),
			MaxTopK:     getEnvAsInt("SEARCH_MAX_TOP_K", 20),
		},
		Session: SessionConfig{
			IdleTimeout: time.Duration(getEnvAsInt("SESSION_IDLE_TIMEOUT_MINUTES", 60)) * time.Minute,
		},
		Analytics: AnalyticsConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
			Enabled:            getEnv("DATABASE_URL", getEnv("PG_DSN", "")) != "",
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.2),
			ChatMaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 1024),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 15),
			RateLimit:       getEnvAsFloat("OPENAI_RATE_LIMIT", 3),
			RateBurst:       getEnvAsInt("OPENAI_RATE_BURST", 5),
			Enabled:         getEnv("OPENAI_API_KEY", "") != "",
		},
	}

	if _, err := time.LoadLocation(cfg.Catalog.Timezone); err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", cfg.Catalog.Timezone, err)
	}

	return cfg, nil
}

// Location returns the configured booking timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Catalog.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
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
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
