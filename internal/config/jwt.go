package config

import (
	"fmt"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig builds the token configuration from the auth section.
// The secret is required; an unset expiration falls back to 24 hours.
func NewJWTConfig(auth AuthConfig) (*JWTConfig, error) {
	hours := auth.JWTExpirationHours
	if hours == 0 {
		hours = DefaultJWTExpirationHours
	}

	config := &JWTConfig{
		Secret:          auth.JWTSecret,
		ExpirationHours: hours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("auth.jwt_secret is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("jwt expiration must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
