package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"site-installer/internal/config"
	"site-installer/internal/phpver"
)

// phpCmd groups PHP runtime inspection commands.
var phpCmd = &cobra.Command{
	Use:   "php",
	Short: "Inspect PHP runtimes on this server",
}

// phpListCmd prints the installed PHP versions the wizard would offer.
var phpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed PHP versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		versions, err := phpver.List(cfg.PHPRoot)
		if err != nil {
			return err
		}
		for _, v := range versions {
			fmt.Println(v)
		}
		return nil
	},
}

func init() {
	phpCmd.AddCommand(phpListCmd)
	rootCmd.AddCommand(phpCmd)
}
