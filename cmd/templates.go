package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"site-installer/internal/config"
	"site-installer/internal/logger"
	"site-installer/internal/vhost"
)

// templatesCmd groups vhost template management commands.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage vhost templates",
}

// templatesListCmd prints the templates the wizard would offer.
var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available vhost templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		names, err := vhost.List(cfg.TemplatesDir)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

// templatesSyncCmd downloads the configured template pack from its GitHub
// release and installs it into the templates directory.
var templatesSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the vhost template pack from its GitHub release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		count, err := vhost.Sync(cfg.TemplatePack, cfg.TemplatesDir)
		if err != nil {
			return err
		}
		logger.Info("[INFO] Installed %d templates into %s\n", count, cfg.TemplatesDir)
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesSyncCmd)
	rootCmd.AddCommand(templatesCmd)
}
