package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)
	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 6000
  host: "127.0.0.1"
  cache_size: 50

source:
  url: "http://localhost:9999"
  api_key: "abc123"
  timeout: 10
  observation_start: "2010-01-01"

refresh:
  cron: "0 6 * * *"

logging:
  level: "debug"
  format: "json"
`)

	config, err := Load(configPath)
	assert.NoError(t, err)
	assert.NotNil(t, config)

	// Verify loaded values
	assert.Equal(t, 6000, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, 50, config.Server.CacheSize)
	assert.Equal(t, "http://localhost:9999", config.Source.URL)
	assert.Equal(t, "abc123", config.Source.APIKey)
	assert.Equal(t, 10, config.Source.Timeout)
	assert.Equal(t, "2010-01-01", config.Source.ObservationStart)
	assert.Equal(t, "0 6 * * *", config.Refresh.Cron)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)

	// Untouched keys keep their defaults
	assert.Equal(t, 9090, config.Server.MetricsPort)
	assert.Equal(t, 120, config.Source.RequestsPerMinute)
	assert.Equal(t, 5.0, config.Server.RateLimit)
}

func TestLoadWithEnvExpansion(t *testing.T) {
	t.Setenv("FRED_API_KEY", "from-env")
	t.Setenv("APP_SERVER_PORT", "7000")

	configPath := writeConfig(t, `
server:
  port: $APP_SERVER_PORT
source:
  api_key: ${FRED_API_KEY}
`)

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "from-env", config.Source.APIKey)
	assert.Equal(t, 7000, config.Server.Port)
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("PPI_SOURCE_API_KEY", "override")
	t.Setenv("PPI_LOGGING_LEVEL", "warn")
	t.Setenv("PPI_SERVER_CACHE_SIZE", "7")

	configPath := writeConfig(t, `
source:
  api_key: "file-key"
logging:
  level: "debug"
`)

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "override", config.Source.APIKey)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, 7, config.Server.CacheSize)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 50051, config.Server.Port)
	assert.Equal(t, "https://api.stlouisfed.org", config.Source.URL)
	assert.Equal(t, 30, config.Source.Timeout)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Empty(t, config.Refresh.Cron)
}

func TestLoadInvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "server: [unterminated")
	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		config, err := Load("")
		require.NoError(t, err)
		config.Source.APIKey = "key"
		return config
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing api key", func(c *Config) { c.Source.APIKey = "" }, "source.api_key is required"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server.port: 70000"},
		{"bad metrics port", func(c *Config) { c.Server.MetricsPort = -1 }, "invalid server.metrics_port: -1"},
		{"zero timeout", func(c *Config) { c.Source.Timeout = 0 }, "source.timeout must be positive"},
		{"zero cache", func(c *Config) { c.Server.CacheSize = 0 }, "server.cache_size must be positive"},
		{"zero rate", func(c *Config) { c.Server.RateLimit = 0 }, "server.rate_limit and server.rate_limit_burst must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
