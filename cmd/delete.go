package cmd

import (
	"github.com/spf13/cobra"

	"site-installer/internal/cloudpanel"
	"site-installer/internal/config"
	"site-installer/internal/dnscheck"
	"site-installer/internal/installer"
	"site-installer/internal/prompt"
	"site-installer/internal/state"
)

// deleteForce skips the confirmation prompt.
var deleteForce bool

// deleteCmd tears a site down again via clpctl site:delete.
var deleteCmd = &cobra.Command{
	Use:   "delete <domain>",
	Short: "Delete a site and all its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		st := state.Load(cfg.StatePath)

		ins := installer.New(cfg, st,
			cloudpanel.New(cfg.ClpctlPath),
			prompt.Terminal(),
			dnscheck.New(cfg.ServerIP),
		)

		if err := ins.Delete(args[0], deleteForce); err != nil {
			return err
		}
		state.Save(cfg.StatePath, st)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete without asking for confirmation")
	rootCmd.AddCommand(deleteCmd)
}
