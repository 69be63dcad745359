package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/gamestart-auth/internal/app"
	"github.com/oshokin/gamestart-auth/internal/config"
	"github.com/oshokin/gamestart-auth/internal/constants"
)

const testBaseConfigContent = `
log_level: "info"
browser_bin: "/usr/bin/chromium"
browser_user_data_dir: "/config/profile"
browser_headless: false
wait_timeout: "20s"
poll_interval: "250ms"
`

func newTestAuthorizeCommand() *cobra.Command {
	testCmd := &cobra.Command{Use: "test"}

	testCmd.Flags().StringP("output", "o", "env", "result format")
	testCmd.Flags().Bool("headless", false, "headless browser")
	testCmd.Flags().String("user-data-dir", "", "profile directory")
	testCmd.Flags().String("browser-bin", "", "browser binary")

	return testCmd
}

// TestFlagOverrides tests that command-line flags correctly override configuration file values.
//
//nolint:funlen // It's a comprehensive integration test.
func TestFlagOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		flags          map[string]string
		expectedConfig func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags - use config values",
			flags: map[string]string{},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/usr/bin/chromium", cfg.BrowserBin)
				assert.Equal(t, "/config/profile", cfg.BrowserUserDataDir)
				assert.False(t, cfg.BrowserHeadless)
			},
		},
		{
			name:  "headless flag only",
			flags: map[string]string{"headless": "true"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.True(t, cfg.BrowserHeadless)
				assert.Equal(t, "/config/profile", cfg.BrowserUserDataDir)
			},
		},
		{
			name:  "user data dir flag only",
			flags: map[string]string{"user-data-dir": "/flag/profile"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/flag/profile", cfg.BrowserUserDataDir)
				assert.Equal(t, "/usr/bin/chromium", cfg.BrowserBin)
			},
		},
		{
			name:  "empty user data dir flag clears the profile",
			flags: map[string]string{"user-data-dir": ""},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Empty(t, cfg.BrowserUserDataDir)
			},
		},
		{
			name: "all flags",
			flags: map[string]string{
				"headless":      "true",
				"user-data-dir": "/all/profile",
				"browser-bin":   "/opt/chrome/chrome",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.True(t, cfg.BrowserHeadless)
				assert.Equal(t, "/all/profile", cfg.BrowserUserDataDir)
				assert.Equal(t, "/opt/chrome/chrome", cfg.BrowserBin)
			},
		},
		{
			name:  "explicit false headless",
			flags: map[string]string{"headless": "false"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.False(t, cfg.BrowserHeadless)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), "test-config.yaml")

			err := os.WriteFile(
				configPath,
				[]byte(testBaseConfigContent),
				constants.DefaultFilePermissions,
			) //nolint:gosec // It's a test file.
			require.NoError(t, err)

			cfg, err := config.LoadConfig(configPath)
			require.NoError(t, err)

			testCmd := newTestAuthorizeCommand()

			for flagName, flagValue := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(flagName, flagValue), "failed to set flag %s", flagName)
			}

			require.NoError(t, bindFlagsToConfig(testCmd.Flags(), cfg))

			// Values the flags do not touch keep their file values and are parsed.
			assert.Equal(t, "20s", cfg.WaitTimeout)
			assert.Positive(t, cfg.ParsedPollInterval)

			tt.expectedConfig(t, cfg)
		})
	}
}

// TestBindFlagsToConfig_Invalid tests that an invalid configuration is reported after binding.
func TestBindFlagsToConfig_Invalid(t *testing.T) {
	t.Parallel()

	cfg, err := config.DefaultConfig()
	require.NoError(t, err)

	cfg.PollInterval = "1h"

	err = bindFlagsToConfig(newTestAuthorizeCommand().Flags(), cfg)

	require.ErrorIs(t, err, config.ErrPollIntervalTooLong)
}

// TestDumpConfig tests the JSON dump of the effective configuration.
func TestDumpConfig(t *testing.T) {
	t.Parallel()

	cfg, err := config.DefaultConfig()
	require.NoError(t, err)

	cfg.BrowserHeadless = true

	var buffer bytes.Buffer

	testCmd := newTestAuthorizeCommand()
	testCmd.SetOut(&buffer)

	require.NoError(t, dumpConfig(testCmd, cfg, app.OutputFormatJSON))

	var dump configDump
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &dump))

	assert.Equal(t, "json", dump.Output)
	assert.True(t, dump.BrowserHeadless)
	assert.Equal(t, "https://poe2-gamestart-web-api.game.daum.net/token/poe2", dump.TokenURL)
	assert.Equal(t, "30s", dump.WaitTimeout)
}

// TestCommandTree tests that every subcommand is registered.
func TestCommandTree(t *testing.T) {
	t.Parallel()

	for _, path := range [][]string{{"authorize"}, {"config", "init"}, {"version"}} {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}
