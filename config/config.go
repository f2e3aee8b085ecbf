package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ticketpass/security"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	PubNubUUID         string

	// Webhook configuration
	WebhookSecret   string
	AllowedCIDRs    []string
	RateLimit       int
	RateLimitWindow time.Duration
	FreshnessWindow time.Duration

	// Notification configuration
	NotifyQueueSize int

	// Admin configuration
	AdminTokenHash string

	// Monitoring
	EnableMetrics bool
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		PubNubUUID:         getEnv("PUBNUB_UUID", "ticketpass-server"),

		// Webhook. The CIDR default covers the gateway's production and
		// sandbox ranges plus both loopback representations for local runs.
		WebhookSecret:   getEnv("WEBHOOK_SECRET", ""),
		AllowedCIDRs:    getEnvAsSlice("WEBHOOK_ALLOWED_CIDRS", "203.0.113.0/24,198.51.100.0/24,127.0.0.0/8,::1/128"),
		RateLimit:       getEnvAsInt("WEBHOOK_RATE_LIMIT", 100),
		RateLimitWindow: getEnvAsDuration("WEBHOOK_RATE_WINDOW", "60s"),
		FreshnessWindow: getEnvAsDuration("WEBHOOK_FRESHNESS_WINDOW", "5m"),

		// Notifications
		NotifyQueueSize: getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),

		// Admin
		AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

// Validate rejects configurations the webhook pipeline cannot run safely
// with.
func (c *Config) Validate() error {
	if len(c.WebhookSecret) < security.MinSecretLength {
		return fmt.Errorf("config: WEBHOOK_SECRET must be at least %d bytes", security.MinSecretLength)
	}
	if c.RateLimit <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("config: invalid rate limit %d/%s", c.RateLimit, c.RateLimitWindow)
	}
	if c.FreshnessWindow <= 0 {
		return fmt.Errorf("config: invalid freshness window %s", c.FreshnessWindow)
	}
	if len(c.AllowedCIDRs) == 0 {
		return fmt.Errorf("config: WEBHOOK_ALLOWED_CIDRS must not be empty")
	}
	return nil
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
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsSlice(key string, defaultValue string) []string {
	valueStr := getEnv(key, defaultValue)
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
