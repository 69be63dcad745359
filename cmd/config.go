package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/gamestart-auth/internal/config"
	"github.com/oshokin/gamestart-auth/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration file commands",
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with all defaults",
		Long: `Writes every setting with its default value and a short description.
The file is written to --config, or to ` + config.DefaultConfigFilename + ` in the current directory.
An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			force, _ := cmd.Flags().GetBool("force")

			path := configFilenameFromFlag
			if path == "" {
				path = config.DefaultConfigFilename
			}

			if err := config.WriteDefaultConfig(path, force); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to write configuration: %v", err)
			}

			logger.Infof(cmd.Context(), "Configuration written to %s", path)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing file.")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
