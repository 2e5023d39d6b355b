package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Upload ceilings (bytes)
	MaxEventBannerSize  int64
	MaxTicketBannerSize int64
	MaxLogoSize         int64

	// Analytics
	TrailingWindowMonths int
	AnalyticsCacheTTL    time.Duration

	// Rate limiting
	ScanRateLimit     int
	CheckoutRateLimit int
	RateLimitWindow   time.Duration

	// Password policy
	RegisterPasswordMinLength int
	ChangePasswordMinLength   int

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Uploads
		MaxEventBannerSize:  getEnvAsInt64("MAX_EVENT_BANNER_SIZE", 10<<20),
		MaxTicketBannerSize: getEnvAsInt64("MAX_TICKET_BANNER_SIZE", 5<<20),
		MaxLogoSize:         getEnvAsInt64("MAX_LOGO_SIZE", 5<<20),

		// Analytics
		TrailingWindowMonths: getEnvAsInt("TRAILING_WINDOW_MONTHS", 6),
		AnalyticsCacheTTL:    getEnvAsDuration("ANALYTICS_CACHE_TTL", "60s"),

		// Rate limiting
		ScanRateLimit:     getEnvAsInt("SCAN_RATE_LIMIT", 60),
		CheckoutRateLimit: getEnvAsInt("CHECKOUT_RATE_LIMIT", 10),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),

		// Password policy
		RegisterPasswordMinLength: getEnvAsInt("REGISTER_PASSWORD_MIN_LENGTH", 6),
		ChangePasswordMinLength:   getEnvAsInt("CHANGE_PASSWORD_MIN_LENGTH", 8),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
