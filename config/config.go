package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storefront StorefrontConfig
	Search     SearchConfig
	Session    SessionConfig
	Storage    StorageConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorefrontConfig holds browser automation configuration
type StorefrontConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	Headless      bool    `mapstructure:"headless"`
	ScreenshotDir string  `mapstructure:"screenshot_dir"`
	NavPerMinute  float64 `mapstructure:"nav_per_minute"`
}

// SearchConfig holds search pipeline configuration
type SearchConfig struct {
	DefaultQuery     string   `mapstructure:"default_query"`
	DefaultBudget    float64  `mapstructure:"default_budget"`
	MaxResults       int      `mapstructure:"max_results"`
	AddAllLimit      int      `mapstructure:"add_all_limit"`
	CategoryKeywords []string `mapstructure:"category_keywords"`
	ExcludeKeywords  []string `mapstructure:"exclude_keywords"`
}

// SessionConfig holds session state configuration
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"` // zero means sessions never expire
}

// StorageConfig holds search history persistence configuration
type StorageConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cartpilot/")

	// Environment variable settings
	v.SetEnvPrefix("CARTPILOT")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Storefront defaults
	v.SetDefault("storefront.base_url", "https://www.amazon.ca")
	v.SetDefault("storefront.headless", true)
	v.SetDefault("storefront.screenshot_dir", "")
	v.SetDefault("storefront.nav_per_minute", 12)

	// Search defaults
	v.SetDefault("search.default_query", "portable monitor")
	v.SetDefault("search.default_budget", 9999.0)
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.add_all_limit", 5)

	// Session defaults: zero TTL keeps results until restart
	v.SetDefault("session.ttl", "0")

	// Storage defaults
	v.SetDefault("storage.enabled", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 30)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Storage.Enabled && config.Storage.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is required when storage is enabled (set CARTPILOT_STORAGE_POSTGRES_DSN)")
	}

	if config.Search.MaxResults <= 0 {
		return fmt.Errorf("search max_results must be positive, got: %d", config.Search.MaxResults)
	}

	if config.Search.AddAllLimit <= 0 {
		return fmt.Errorf("search add_all_limit must be positive, got: %d", config.Search.AddAllLimit)
	}

	return nil
}
