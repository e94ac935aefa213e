package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		RPCURL: "http://localhost:8545",
		DB:     DatabaseConfig{Path: "/tmp/blocks.sqlite"},
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Retry = &RetryConfig{}
	cfg.Logging = &LoggingConfig{}
	cfg.Metrics = &MetricsConfig{}
	cfg.ApplyDefaults()

	assert.Equal(t, "mainnet", cfg.Chain)
	assert.Equal(t, 4, cfg.Checker.Concurrency)

	assert.Equal(t, "WAL", cfg.DB.JournalMode)
	assert.Equal(t, "NORMAL", cfg.DB.Synchronous)
	assert.Equal(t, 5000, cfg.DB.BusyTimeout)
	assert.Equal(t, 25, cfg.DB.MaxOpenConnections)
	assert.Equal(t, 5, cfg.DB.MaxIdleConnections)

	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.InitialBackoff.Duration)
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxBackoff.Duration)
	assert.Equal(t, 2.0, cfg.Retry.BackoffMultiplier)

	assert.Equal(t, "info", cfg.Logging.DefaultLevel)
	assert.Equal(t, ":9090", cfg.Metrics.ListenAddress)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestConfig_ApplyDefaultsKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Chain = "sepolia"
	cfg.Checker.Concurrency = 16
	cfg.ApplyDefaults()

	assert.Equal(t, "sepolia", cfg.Chain)
	assert.Equal(t, 16, cfg.Checker.Concurrency)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing rpc_url",
			mutate:  func(c *Config) { c.RPCURL = "" },
			wantErr: "rpc_url",
		},
		{
			name:    "missing db path",
			mutate:  func(c *Config) { c.DB.Path = "" },
			wantErr: "db.path",
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Checker.Concurrency = -1 },
			wantErr: "checker.concurrency",
		},
		{
			name: "invalid default log level",
			mutate: func(c *Config) {
				c.Logging = &LoggingConfig{DefaultLevel: "verbose"}
			},
			wantErr: "logging.default_level",
		},
		{
			name: "unknown log component",
			mutate: func(c *Config) {
				c.Logging = &LoggingConfig{
					DefaultLevel:    "info",
					ComponentLevels: map[string]string{"indexer": "debug"},
				}
			},
			wantErr: "unknown component",
		},
		{
			name: "invalid component log level",
			mutate: func(c *Config) {
				c.Logging = &LoggingConfig{
					DefaultLevel:    "info",
					ComponentLevels: map[string]string{"checker": "loud"},
				}
			},
			wantErr: "logging.component_levels.checker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
