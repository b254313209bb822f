package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	cfg, err := NewJWTConfig(AuthConfig{JWTSecret: "test-secret-key"})
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	tests := []struct {
		name          string
		expiration    int
		expectedHours int
		wantErr       bool
	}{
		{name: "custom expiration 12 hours", expiration: 12, expectedHours: 12},
		{name: "custom expiration 48 hours", expiration: 48, expectedHours: 48},
		{name: "minimum expiration 1 hour", expiration: 1, expectedHours: 1},
		{name: "negative expiration", expiration: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(AuthConfig{JWTSecret: "secret", JWTExpirationHours: tt.expiration})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours)
		})
	}
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	cfg, err := NewJWTConfig(AuthConfig{JWTExpirationHours: 24})
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestNewJWTConfig_FromLoadedConfig(t *testing.T) {
	t.Setenv("HYPERGIGS_AUTH_JWT_SECRET", "from-env")
	t.Setenv("HYPERGIGS_AUTH_JWT_EXPIRATION_HOURS", "6")
	t.Chdir(t.TempDir())

	loaded, err := Load("")
	require.NoError(t, err)

	cfg, err := NewJWTConfig(loaded.Auth)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Secret)
	assert.Equal(t, 6, cfg.ExpirationHours)
}
