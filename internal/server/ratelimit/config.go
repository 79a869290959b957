package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// Model-backed operations get the strictest limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: model-call heavy operations
		{Path: "/autofix", Method: "POST", Limit: 5, Window: time.Minute, Burst: 2},
		{Path: "/autofix/stream", Method: "POST", Limit: 5, Window: time.Minute, Burst: 2},
		{Path: "/rewrite-batch", Method: "POST", Limit: 5, Window: time.Minute, Burst: 2},
		{Path: "/generate-insights", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},

		// Tier 2: local analysis, cheap but still bounded
		{Path: "/analyze-ats", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/analyze-bias", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/localize", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/localize/advice", Method: "POST", Limit: 20, Window: time.Minute, Burst: 10},
		{Path: "/templates/preview", Method: "POST", Limit: 20, Window: time.Minute, Burst: 10},

		// Tier 3: PDF export involves a headless browser
		{Path: "/resumes/", Method: "GET", Limit: 20, Window: time.Minute, Burst: 5},

		// Reads fall under the default limit; /health is unlimited via the matcher.
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
