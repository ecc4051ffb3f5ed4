package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. PPI_SOURCE_API_KEY
const EnvPrefix = "PPI"

// Config holds all configuration for our application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Source  SourceConfig  `mapstructure:"source"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           int     `mapstructure:"port"`
	Host           string  `mapstructure:"host"`
	MetricsPort    int     `mapstructure:"metrics_port"`
	CacheSize      int     `mapstructure:"cache_size"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type SourceConfig struct {
	URL               string `mapstructure:"url"`
	APIKey            string `mapstructure:"api_key"`
	Timeout           int    `mapstructure:"timeout"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	ObservationStart  string `mapstructure:"observation_start"`
}

type RefreshConfig struct {
	// Cron is a standard five field schedule; empty disables refreshing
	Cron string `mapstructure:"cron"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
//
// ${VAR} references inside the file are expanded first, then any
// PPI_<SECTION>_<KEY> variable overrides the matching key. A missing file
// is not an error: defaults and the environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	data, err := readExpanded(path)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func readExpanded(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// First unmarshal into a map so the file is known to be valid YAML
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raw config: %w", err)
	}

	// Convert the map to YAML again
	data, err = yaml.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raw config: %w", err)
	}

	// Expand environment variables
	return []byte(os.ExpandEnv(string(data))), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 50051)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.cache_size", 1000)
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_limit_burst", 10)

	v.SetDefault("source.url", "https://api.stlouisfed.org")
	v.SetDefault("source.api_key", "")
	v.SetDefault("source.timeout", 30)
	v.SetDefault("source.requests_per_minute", 120)
	v.SetDefault("source.observation_start", "")

	v.SetDefault("refresh.cron", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks the settings every mode depends on
func (c *Config) Validate() error {
	if c.Source.APIKey == "" {
		return errors.New("source.api_key is required")
	}
	if c.Source.Timeout <= 0 {
		return errors.New("source.timeout must be positive")
	}
	if c.Source.RequestsPerMinute < 0 {
		return errors.New("source.requests_per_minute must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid server.metrics_port: %d", c.Server.MetricsPort)
	}
	if c.Server.CacheSize <= 0 {
		return errors.New("server.cache_size must be positive")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateLimitBurst <= 0 {
		return errors.New("server.rate_limit and server.rate_limit_burst must be positive")
	}
	return nil
}
