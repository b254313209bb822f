package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost int
		pepper     string
		wantCost   int
		wantErr    bool
	}{
		{name: "default cost", bcryptCost: 0, wantCost: 12},
		{name: "valid cost", bcryptCost: 11, wantCost: 11},
		{name: "cost too low", bcryptCost: 9, wantErr: true},
		{name: "cost too high", bcryptCost: 15, wantErr: true},
		{name: "with pepper", bcryptCost: 10, pepper: "test-pepper", wantCost: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewPasswordConfig(AuthConfig{BcryptCost: tt.bcryptCost, PasswordPepper: tt.pepper})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestPasswordConfig_HashPassword(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("test-password-123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	hash2, err := cfg.HashPassword("test-password-123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2, "bcrypt salts every hash")
}

func TestPasswordConfig_VerifyPassword(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("test-password-123")
	require.NoError(t, err)

	assert.True(t, cfg.VerifyPassword("test-password-123", hash))
	assert.False(t, cfg.VerifyPassword("wrong-password", hash))
}

func TestPasswordConfig_VerifyPassword_WithPepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "pepper-1"}
	hash, err := peppered.HashPassword("secret-pass")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("secret-pass", hash))

	rotated := &PasswordConfig{BcryptCost: 10, Pepper: "pepper-2"}
	assert.False(t, rotated.VerifyPassword("secret-pass", hash), "a different pepper must not verify")

	plain := &PasswordConfig{BcryptCost: 10}
	assert.False(t, plain.VerifyPassword("secret-pass", hash))
}

func TestPasswordConfig_PasswordExceeding72Bytes(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	_, err := cfg.HashPassword(strings.Repeat("a", 80))
	assert.Error(t, err, "bcrypt rejects inputs over 72 bytes")
}

func TestPasswordConfig_ConcurrentAccess(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}
	hash, err := cfg.HashPassword("shared")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cfg.VerifyPassword("shared", hash)
		}(i)
	}
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
}
