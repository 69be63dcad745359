package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/gamestart-auth/internal/app"
	"github.com/oshokin/gamestart-auth/internal/config"
	"github.com/oshokin/gamestart-auth/internal/logger"
)

// dumpConfigEnv makes authorize print the effective configuration as JSON instead of running.
const dumpConfigEnv = config.EnvPrefix + "_DUMP_CONFIG"

//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Sign in through the browser and print the access token",
	Long: `Opens a browser window and runs the game-start sign-in:

1. The OAuth2 authorization page opens and redirects home once you are signed in
2. The game-start page is opened and the browser cookies are handed to the token endpoint
3. If security center verification is required, complete it in the browser window
4. The access token and user id are printed to stdout

Output formats:
  env   TASK_2=1, ACCESS_TOKEN=..., USER_ID=... (TASK_2=0 on failure)
  json  {"success":true,"access_token":"...","user_id":...}
  yaml  the same fields as YAML`,
	Args:             cobra.NoArgs,
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
			logger.Fatalf(ctx, "Failed to parse flags: %v", err)
		}

		outputValue, _ := cmd.Flags().GetString("output")

		format, err := app.ParseOutputFormat(outputValue)
		if err != nil {
			logger.Fatalf(ctx, "Failed to parse flags: %v", err)
		}

		if os.Getenv(dumpConfigEnv) == "1" {
			if err = dumpConfig(cmd, appConfig, format); err != nil {
				logger.Fatalf(ctx, "Failed to dump configuration: %v", err)
			}

			return
		}

		if err = app.ExecuteAuthorizeCommand(ctx, appConfig, format); err != nil {
			logger.Fatalf(ctx, "Authorization failed: %v", err)
		}
	},
}

// configDump is the effective configuration printed when dumpConfigEnv is set.
type configDump struct {
	Output             string `json:"output"`
	LogLevel           string `json:"log_level"`
	BrowserBin         string `json:"browser_bin"`
	BrowserUserDataDir string `json:"browser_user_data_dir"`
	BrowserHeadless    bool   `json:"browser_headless"`
	TokenURL           string `json:"token_url"`
	WaitTimeout        string `json:"wait_timeout"`
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	flags := authorizeCmd.Flags()

	flags.StringP(
		"output",
		"o",
		string(app.OutputFormatEnv),
		"result format: env, json or yaml.")

	flags.Bool(
		"headless",
		false,
		"run the browser without a window (security center verification needs a window).")

	flags.String(
		"user-data-dir",
		"",
		"Chrome profile directory to reuse, for example ~/.config/google-chrome.")

	flags.String(
		"browser-bin",
		"",
		"path to the Chrome/Chromium binary.")

	rootCmd.AddCommand(authorizeCmd)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("headless"); flag != nil && flag.Changed {
		cfg.BrowserHeadless, _ = flags.GetBool("headless")
	}

	if flag := flags.Lookup("user-data-dir"); flag != nil && flag.Changed {
		cfg.BrowserUserDataDir, _ = flags.GetString("user-data-dir")
	}

	if flag := flags.Lookup("browser-bin"); flag != nil && flag.Changed {
		cfg.BrowserBin, _ = flags.GetString("browser-bin")
	}

	return config.ValidateConfig(cfg)
}

func dumpConfig(cmd *cobra.Command, cfg *config.Config, format app.OutputFormat) error {
	return json.NewEncoder(cmd.OutOrStdout()).Encode(configDump{
		Output:             string(format),
		LogLevel:           cfg.LogLevel,
		BrowserBin:         cfg.BrowserBin,
		BrowserUserDataDir: cfg.BrowserUserDataDir,
		BrowserHeadless:    cfg.BrowserHeadless,
		TokenURL:           cfg.TokenURL,
		WaitTimeout:        cfg.WaitTimeout,
	})
}
