package ratelimit

import (
	"time"

	"github.com/jonathan/hypergigs/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// ConfigFrom builds the limiter configuration from the rate_limit section.
func ConfigFrom(rl config.RateLimitConfig) *Config {
	if !rl.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    rl.RequestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    rl.Burst,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(rl.AuthRequestsPerMinute),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations.
// authPerMinute limits credential endpoints; 0 uses the package default.
func DefaultEndpointConfigs(authPerMinute int) []EndpointConfig {
	if authPerMinute <= 0 {
		authPerMinute = config.DefaultAuthRateLimitPerMinute
	}
	return []EndpointConfig{
		// Credential checks are the most expensive (bcrypt) and the most abused.
		{Path: "/v1/auth/", Method: "POST", Limit: authPerMinute, Window: time.Minute, Burst: 3},

		// Candidate scoring loads and scores a full pool per call.
		{Path: "/v1/teams/", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Money movements.
		{Path: "/v1/transactions", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/v1/transactions/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/v1/subscriptions", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/v1/subscriptions/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
	}
}
