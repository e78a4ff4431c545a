package config

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Database: DatabaseConfig{
			Host:   "localhost",
			DBName: "mockbank",
		},
		Ledger: LedgerConfig{
			GatewayTimeout: 5 * time.Second,
			ReversalPolicy: ReversalPolicyReject,
		},
		Logger: LoggerConfig{Level: "info"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "server port",
		},
		{
			name:    "zero gateway timeout",
			mutate:  func(c *Config) { c.Ledger.GatewayTimeout = 0 },
			wantErr: "gateway timeout",
		},
		{
			name:    "unknown reversal policy",
			mutate:  func(c *Config) { c.Ledger.ReversalPolicy = "sometimes" },
			wantErr: "reversal policy",
		},
		{
			name:    "failure rate above one",
			mutate:  func(c *Config) { c.App.FailureRate = 1.5 },
			wantErr: "failure rate",
		},
		{
			name:    "max latency below min",
			mutate: func(c *Config) {
				c.App.MinLatencyMS = 100
				c.App.MaxLatencyMS = 10
			},
			wantErr: "latency",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestNewLogger(t *testing.T) {
	logger := (&LoggerConfig{Level: "info"}).NewLogger()

	require.NotNil(t, logger)
	ctx := context.Background()
	assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
}
