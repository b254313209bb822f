// Package config loads service configuration from an optional YAML file and HYPERGIGS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. HYPERGIGS_DATABASE_URL.
const EnvPrefix = "HYPERGIGS"

// Marketplace defaults.
const (
	DefaultPlatformFeePercent     = 22.5
	DefaultCurrency               = "USD"
	DefaultMinMatchScore          = 3
	DefaultCandidatePoolSize      = 100
	DefaultSuggestionLimit        = 10
	DefaultSkillWeight            = 0.4
	DefaultPortfolioWeight        = 0.35
	DefaultExperienceWeight       = 0.25
	DefaultStatsCacheTTL          = 5 * time.Minute
	DefaultServerPort             = 8080
	DefaultReadTimeout            = 15 * time.Second
	DefaultWriteTimeout           = 30 * time.Second
	DefaultShutdownTimeout        = 10 * time.Second
	DefaultJWTExpirationHours     = 24
	DefaultBcryptCost             = 12
	DefaultRateLimitPerMinute     = 60
	DefaultRateLimitBurst         = 10
	DefaultAuthRateLimitPerMinute = 10
)

// Config is the full service configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Log         LogConfig         `mapstructure:"log"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig configures the Postgres pool.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig configures the stats cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	StatsTTL time.Duration `mapstructure:"stats_ttl"`
}

// AuthConfig carries the token and password hashing settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MarketplaceConfig holds the tunable business constants.
type MarketplaceConfig struct {
	PlatformFeePercent     float64 `mapstructure:"platform_fee_percent"`
	DefaultCurrency        string  `mapstructure:"default_currency"`
	MinMatchScore          int     `mapstructure:"min_match_score"`
	CandidatePoolSize      int     `mapstructure:"candidate_pool_size"`
	DefaultSuggestionLimit int     `mapstructure:"default_suggestion_limit"`
	SkillWeight            float64 `mapstructure:"skill_weight"`
	PortfolioWeight        float64 `mapstructure:"portfolio_weight"`
	ExperienceWeight       float64 `mapstructure:"experience_weight"`
}

// RateLimitConfig configures the per-client request limiters.
type RateLimitConfig struct {
	Enabled               bool `mapstructure:"enabled"`
	RequestsPerMinute     int  `mapstructure:"requests_per_minute"`
	Burst                 int  `mapstructure:"burst"`
	AuthRequestsPerMinute int  `mapstructure:"auth_requests_per_minute"`
}

// Load reads configuration. path may be empty, in which case config.yaml is looked up in
// the working directory and ./configs; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied and nothing read.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Bound so AutomaticEnv picks them up during Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stats_ttl", DefaultStatsCacheTTL)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration_hours", DefaultJWTExpirationHours)
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("auth.password_pepper", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("marketplace.platform_fee_percent", DefaultPlatformFeePercent)
	v.SetDefault("marketplace.default_currency", DefaultCurrency)
	v.SetDefault("marketplace.min_match_score", DefaultMinMatchScore)
	v.SetDefault("marketplace.candidate_pool_size", DefaultCandidatePoolSize)
	v.SetDefault("marketplace.default_suggestion_limit", DefaultSuggestionLimit)
	v.SetDefault("marketplace.skill_weight", DefaultSkillWeight)
	v.SetDefault("marketplace.portfolio_weight", DefaultPortfolioWeight)
	v.SetDefault("marketplace.experience_weight", DefaultExperienceWeight)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", DefaultRateLimitPerMinute)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
	v.SetDefault("rate_limit.auth_requests_per_minute", DefaultAuthRateLimitPerMinute)
}

// Validate checks that the configuration has valid values.
// Secrets and the database URL are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}

	m := c.Marketplace
	if m.PlatformFeePercent < 0 || m.PlatformFeePercent > 100 {
		return fmt.Errorf("config error: 'marketplace.platform_fee_percent' must be within [0,100], got %v", m.PlatformFeePercent)
	}
	if m.MinMatchScore < 0 {
		return fmt.Errorf("config error: 'marketplace.min_match_score' must be non-negative")
	}
	if m.CandidatePoolSize < 1 {
		return fmt.Errorf("config error: 'marketplace.candidate_pool_size' must be at least 1")
	}
	if m.DefaultSuggestionLimit < 1 {
		return fmt.Errorf("config error: 'marketplace.default_suggestion_limit' must be at least 1")
	}
	if m.SkillWeight < 0 || m.PortfolioWeight < 0 || m.ExperienceWeight < 0 {
		return fmt.Errorf("config error: verification weights must be non-negative")
	}
	if sum := m.SkillWeight + m.PortfolioWeight + m.ExperienceWeight; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("config error: verification weights must sum to 1, got %v", sum)
	}
	if len(m.DefaultCurrency) != 3 {
		return fmt.Errorf("config error: 'marketplace.default_currency' must be a 3-letter code")
	}

	if c.Auth.BcryptCost < 10 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("config error: bcrypt cost out of range: %d (must be 10-14)", c.Auth.BcryptCost)
	}
	if c.Auth.JWTExpirationHours < 1 {
		return fmt.Errorf("config error: 'auth.jwt_expiration_hours' must be at least 1")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute < 1 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("config error: rate limits must be positive when enabled")
	}
	return nil
}
