package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"site-installer/internal/logger"
)

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// configPath holds the path to the installer configuration YAML file.
// The defaults work on a stock CloudPanel server without any file present.
var configPath string

// rootCmd is the base command for the CLI tool `site-installer`.
// It sets up the root-level CLI structure and provides global flags.
var rootCmd = &cobra.Command{
	Use:   "site-installer",                            // The name of the CLI tool
	Short: "Provision websites on a CloudPanel server", // Short description shown in help output
	Long: `site-installer provisions complete websites on a server managed by the
CloudPanel control plane: PHP runtime, vhost, database, Let's Encrypt
certificate, and a credentials file in the site user's home directory.`,

	// PersistentPreRun is a hook that runs before any subcommand.
	// Here, we initialize the logger based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug) // Set up logging (verbose if --debug is true)
	},

	// Errors are printed once by Execute with the colored logger, not by
	// cobra itself.
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute initializes flags, registers subcommands, and starts the command execution.
// It's the entry point for the CLI when invoked by the user.
func Execute() {
	// Register global flags before any command is executed.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/site-installer/config.yaml", "Path to configuration file")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
