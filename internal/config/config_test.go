package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// validConfig returns a configuration that passes ValidateConfig.
func validConfig(t *testing.T) *Config {
	t.Helper()

	cfg, err := DefaultConfig()
	require.NoError(t, err)

	return cfg
}

// TestDefaultConfig tests that the defaults are valid and parsed.
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, zapcore.InfoLevel, cfg.ParsedLogLevel)
	assert.Equal(t, 30*time.Second, cfg.ParsedWaitTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.ParsedPollInterval)
	assert.Equal(t, 3*time.Minute, cfg.ParsedVerificationTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ParsedFlowTimeout)
	assert.Equal(t, 60*time.Second, cfg.ParsedHTTPTimeout)
	assert.Equal(t, int64(3), cfg.MaxSecurityReentries)
	assert.Equal(t, uint64(1_000_000), cfg.ParsedMaxLogLength)
	assert.Equal(t, 10, cfg.ParsedLogFileMaxSizeMB)
	assert.Equal(t, "https://pubsvc.game.daum.net/gamestart/poe2.html", cfg.GameStartURL)
	assert.Equal(t, "https://security-center.game.daum.net/auth", cfg.SecurityURL)
	assert.False(t, cfg.BrowserHeadless)
}

// TestDefaultConfig_FlowTimeoutCoversSteps tests that the default flow timeout leaves room
// for every step the default limits allow.
func TestDefaultConfig_FlowTimeoutCoversSteps(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t)

	securityRound := cfg.ParsedWaitTimeout + cfg.ParsedVerificationTimeout
	steps := 2*cfg.ParsedWaitTimeout + time.Duration(cfg.MaxSecurityReentries)*securityRound

	assert.GreaterOrEqual(t, cfg.ParsedFlowTimeout, steps)
}

// TestLoadConfig tests the LoadConfig function.
func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "file overrides defaults",
			content: `
log_level: "debug"
wait_timeout: "5s"
max_security_reentries: 5
browser_headless: true
`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "5s", cfg.WaitTimeout)
				assert.Equal(t, int64(5), cfg.MaxSecurityReentries)
				assert.True(t, cfg.BrowserHeadless)
				// Untouched keys keep their defaults.
				assert.Equal(t, "500ms", cfg.PollInterval)
				assert.Equal(t, "internal", cfg.ClientID)
			},
		},
		{
			name:    "empty file keeps defaults",
			content: "",
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "30s", cfg.WaitTimeout)
			},
		},
		{
			name:        "invalid YAML",
			content:     "log_level: [unclosed",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0o600))

			cfg, err := LoadConfig(configPath)
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

// TestLoadConfig_MissingExplicitFile tests that an explicitly requested file must exist.
func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Nil(t, cfg)
}

// TestLoadConfig_EnvOverride tests that GAMESTART_AUTH_* variables override file values.
func TestLoadConfig_EnvOverride(t *testing.T) {
	// t.Setenv forbids t.Parallel.
	t.Setenv("GAMESTART_AUTH_POLL_INTERVAL", "250ms")
	t.Setenv("GAMESTART_AUTH_BROWSER_HEADLESS", "true")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`poll_interval: "1s"`), 0o600))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "250ms", cfg.PollInterval)
	assert.True(t, cfg.BrowserHeadless)
}

// TestValidateConfig tests the ValidateConfig function.
//
//nolint:funlen // Table-driven test with many cases.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectedErr error
	}{
		{
			name:   "valid defaults",
			mutate: func(_ *Config) {},
		},
		{
			name:        "unknown log level",
			mutate:      func(cfg *Config) { cfg.LogLevel = "verbose" },
			expectedErr: ErrUnknownLogLevel,
		},
		{
			name:        "relative token URL",
			mutate:      func(cfg *Config) { cfg.TokenURL = "/token/poe2" },
			expectedErr: ErrInvalidURL,
		},
		{
			name:        "empty security URL",
			mutate:      func(cfg *Config) { cfg.SecurityURL = "" },
			expectedErr: ErrEmptySetting,
		},
		{
			name:        "empty client id",
			mutate:      func(cfg *Config) { cfg.ClientID = " " },
			expectedErr: ErrEmptySetting,
		},
		{
			name:        "negative wait timeout",
			mutate:      func(cfg *Config) { cfg.WaitTimeout = "-1s" },
			expectedErr: ErrInvalidDuration,
		},
		{
			name:        "zero flow timeout",
			mutate:      func(cfg *Config) { cfg.FlowTimeout = "0s" },
			expectedErr: ErrInvalidDuration,
		},
		{
			name:        "poll interval longer than wait timeout",
			mutate:      func(cfg *Config) { cfg.PollInterval = "1m" },
			expectedErr: ErrPollIntervalTooLong,
		},
		{
			name:        "zero reentries",
			mutate:      func(cfg *Config) { cfg.MaxSecurityReentries = 0 },
			expectedErr: ErrInvalidReentries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig(t)
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.expectedErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

// TestValidateConfig_UnparsableValues tests values that fail to parse at all.
func TestValidateConfig_UnparsableValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{name: "bad duration", mutate: func(cfg *Config) { cfg.PollInterval = "often" }},
		{name: "bad log length", mutate: func(cfg *Config) { cfg.MaxLogLength = "lots" }},
		{name: "bad log file size", mutate: func(cfg *Config) { cfg.LogFileMaxSize = "huge" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig(t)
			tt.mutate(cfg)

			require.Error(t, ValidateConfig(cfg))
		})
	}
}

// TestValidateConfig_ZeroMaxLogLength tests that a disabled limit falls back to the default.
func TestValidateConfig_ZeroMaxLogLength(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t)
	cfg.MaxLogLength = "0"

	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, uint64(DefaultMaxLogLength), cfg.ParsedMaxLogLength)
}

// TestWriteDefaultConfig tests that the generated file loads back into a valid configuration.
func TestWriteDefaultConfig(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), DefaultConfigFilename)

	require.NoError(t, WriteDefaultConfig(configPath, false))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `token_url: "https://poe2-gamestart-web-api.game.daum.net/token/poe2"`)
	assert.Contains(t, string(content), "max_security_reentries: 3")
	assert.Contains(t, string(content), "Security center page.")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, "30s", cfg.WaitTimeout)

	err = WriteDefaultConfig(configPath, false)
	require.ErrorIs(t, err, ErrConfigExists)

	require.NoError(t, WriteDefaultConfig(configPath, true))
}
