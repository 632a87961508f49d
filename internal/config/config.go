package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// UpstreamBaseURL is the clinic backend origin all data calls go through,
	// including any path prefix (e.g. "https://backend.example.com/api").
	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	// AdminEmail is the single address allowed through the admin login flow.
	// The comparison is case-insensitive.
	AdminEmail string

	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// SessionTTL of zero keeps sessions until explicit logout.
	SessionTTL   time.Duration
	LoginFlowTTL time.Duration

	// CookieSecure marks session cookies Secure; enabled outside development.
	CookieSecure bool
}

// Load reads configuration from environment variables
func Load() *Config {
	env := getEnv("ENV", "development")
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		UpstreamBaseURL:    getEnv("UPSTREAM_BASE_URL", "http://localhost:5001/api"),
		UpstreamTimeout:    getEnvAsDuration("UPSTREAM_TIMEOUT", 20*time.Second),
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RedisAddr:          getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 0),
		LoginFlowTTL:       getEnvAsDuration("LOGIN_FLOW_TTL", 10*time.Minute),
		CookieSecure:       getEnvAsBool("COOKIE_SECURE", env == "production"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable, dropping empty entries.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
