package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	NewsAPIKey         string        `mapstructure:"news_api_key"`
	NewsAPIBaseURL     string        `mapstructure:"news_api_base_url"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	Country            string        `mapstructure:"country"`

	RefreshIntervalSeconds int64         `mapstructure:"refresh_interval_seconds"`
	RefreshInterval        time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`
	PreviewEnabled bool   `mapstructure:"preview_enabled"`
	MetricsAddr    string `mapstructure:"metrics_addr"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-headlines")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("news_api_key", "")
	v.SetDefault("news_api_base_url", "https://newsapi.org/v2")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("country", "")
	v.SetDefault("refresh_interval_seconds", 0)
	v.SetDefault("publishers_file", "")
	v.SetDefault("preview_enabled", true)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/history.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and derives durations.
func (c *Config) finalize() error {
	c.NewsAPIKey = strings.TrimSpace(c.NewsAPIKey)
	if c.NewsAPIKey == "" {
		return fmt.Errorf("news_api_key is required")
	}
	c.NewsAPIBaseURL = strings.TrimRight(strings.TrimSpace(c.NewsAPIBaseURL), "/")
	if c.NewsAPIBaseURL == "" {
		return fmt.Errorf("news_api_base_url must not be empty")
	}
	c.Country = strings.ToLower(strings.TrimSpace(c.Country))

	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if c.RefreshIntervalSeconds < 0 {
		return fmt.Errorf("invalid refresh_interval_seconds (must not be negative)")
	}
	c.RefreshInterval = time.Duration(c.RefreshIntervalSeconds) * time.Second

	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second

	return nil
}

// Redacted returns a copy safe for logging.
func (c Config) Redacted() Config {
	if c.NewsAPIKey != "" {
		c.NewsAPIKey = "***"
	}
	return c
}
