package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"site-installer/internal/config"
	"site-installer/internal/logger"
	"site-installer/internal/state"
)

// listCmd prints the sites recorded in the local state file.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sites provisioned by this tool",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		st := state.Load(cfg.StatePath)

		if len(st.Sites) == 0 {
			logger.Info("[INFO] No sites recorded yet.\n")
			return nil
		}

		for _, domainName := range st.Domains() {
			rec := st.Sites[domainName]
			cert := "no certificate"
			if rec.Certificate {
				cert = "certificate issued"
			}
			fmt.Printf("%s\n", domainName)
			fmt.Printf("    site user: %-20s PHP %s, template %s, %s\n",
				rec.SiteUser, rec.PHPVersion, rec.VhostTemplate, cert)
			fmt.Printf("    installed: %s\n", rec.InstalledAt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
