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

// Flag storage for the install command. Empty values mean "ask the operator".
var (
	installDomain   string
	installPHP      string
	installTemplate string
	skipDNSCheck    bool
	skipCertificate bool
	assumeYes       bool
)

// installCmd runs the provisioning wizard. With no flags it is fully
// interactive; with --domain/--php/--template (and --yes) it runs without a
// terminal, e.g. from another script.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision a new website (interactive wizard)",
	Long: `Walks through creating a site: PHP version, vhost template, domain
(validated, re-prompted on bad input), an advisory DNS check, then site,
database, and certificate via clpctl, finishing with a credentials file in
the site user's home directory.`,
	Args: cobra.NoArgs,
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

		err = ins.Run(cmd.Context(), installer.Options{
			Domain:          installDomain,
			PHPVersion:      installPHP,
			Template:        installTemplate,
			SkipDNSCheck:    skipDNSCheck,
			SkipCertificate: skipCertificate,
			AssumeYes:       assumeYes,
		})

		// Persist whatever the run recorded before reporting the outcome.
		state.Save(cfg.StatePath, st)
		return err
	},
}

// init sets up CLI flags and registers the command.
func init() {
	installCmd.Flags().StringVar(&installDomain, "domain", "", "Domain name to provision (skips the prompt)")
	installCmd.Flags().StringVar(&installPHP, "php", "", "PHP version to use (must be installed)")
	installCmd.Flags().StringVar(&installTemplate, "template", "", "Vhost template to use")
	installCmd.Flags().BoolVar(&skipDNSCheck, "skip-dns-check", false, "Skip the advisory DNS check")
	installCmd.Flags().BoolVar(&skipCertificate, "skip-certificate", false, "Do not request a Let's Encrypt certificate")
	installCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to all confirmation prompts")

	rootCmd.AddCommand(installCmd)
}
