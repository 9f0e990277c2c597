// Package installer orchestrates the provisioning flow: gather choices from
// the operator (or flags), validate the domain, check DNS, then sequence the
// control-plane calls and record the result. All real work happens in the
// collaborator packages; this one owns the ordering and the interactive
// retry loops.
package installer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"site-installer/internal/cloudpanel"
	"site-installer/internal/config"
	"site-installer/internal/credentials"
	"site-installer/internal/dnscheck"
	"site-installer/internal/domain"
	"site-installer/internal/logger"
	"site-installer/internal/phpver"
	"site-installer/internal/prompt"
	"site-installer/internal/secret"
	"site-installer/internal/state"
	"site-installer/internal/vhost"
)

// ControlPlane is the slice of the cloudpanel client the installer needs.
// An interface so tests can run the full wizard against a fake.
type ControlPlane interface {
	AddPHPSite(req cloudpanel.SiteRequest) error
	AddDatabase(req cloudpanel.DatabaseRequest) error
	InstallCertificate(domainName string) error
	DeleteSite(domainName string, force bool) error
}

// DNSChecker is the advisory record check, also swappable in tests.
type DNSChecker interface {
	Check(ctx context.Context, domainName string) dnscheck.Result
}

// Options are the wizard inputs that can be pre-answered with flags.
// Empty/false fields are asked interactively.
type Options struct {
	Domain          string
	PHPVersion      string
	Template        string
	SkipDNSCheck    bool
	SkipCertificate bool
	// AssumeYes answers every confirmation prompt with yes
	// (non-interactive runs).
	AssumeYes bool
}

// Installer wires the collaborators together for one invocation.
type Installer struct {
	Config config.Config
	State  *state.State
	Panel  ControlPlane
	Prompt *prompt.Prompter
	DNS    DNSChecker

	// now is the clock, fixed in tests.
	now func() time.Time
}

// New assembles an Installer from loaded config and state.
func New(cfg config.Config, st *state.State, panel ControlPlane, p *prompt.Prompter, dns DNSChecker) *Installer {
	return &Installer{
		Config: cfg,
		State:  st,
		Panel:  panel,
		Prompt: p,
		DNS:    dns,
		now:    time.Now,
	}
}

// Run executes the install flow and records the site in state on success.
// The caller is responsible for persisting the state afterwards.
func (ins *Installer) Run(ctx context.Context, opts Options) error {
	// 1. PHP runtime.
	phpVersion, err := ins.choosePHPVersion(opts.PHPVersion)
	if err != nil {
		return err
	}

	// 2. Vhost template.
	template, err := ins.chooseTemplate(opts.Template)
	if err != nil {
		return err
	}

	// 3. Domain, with interactive retry on bad format.
	domainName, err := ins.askDomain(opts.Domain)
	if err != nil {
		return err
	}

	// 4. Derived identifier: system account, database name, database user.
	siteUser := domain.SiteUser(domainName)
	logger.Info("[INFO] Site user for %s: %s\n", domainName, siteUser)

	if _, exists := ins.State.Sites[domainName]; exists {
		return fmt.Errorf("domain %s is already provisioned on this server", domainName)
	}

	// 5. Advisory DNS check.
	if !opts.SkipDNSCheck {
		if err := ins.confirmDNS(ctx, domainName, opts.AssumeYes); err != nil {
			return err
		}
	}

	// 6. Credentials.
	sitePassword, err := secret.Password(ins.Config.PasswordLength)
	if err != nil {
		return err
	}
	dbPassword, err := secret.Password(ins.Config.PasswordLength)
	if err != nil {
		return err
	}

	// 7. Site.
	logger.Info("[INFO] Creating site %s (PHP %s, template %s)...\n", domainName, phpVersion, template)
	err = ins.Panel.AddPHPSite(cloudpanel.SiteRequest{
		DomainName:       domainName,
		PHPVersion:       phpVersion,
		VhostTemplate:    template,
		SiteUser:         siteUser,
		SiteUserPassword: sitePassword,
	})
	if err != nil {
		return fmt.Errorf("site creation failed: %w", err)
	}

	// 8. Database. On failure, offer to tear the half-made site down again.
	logger.Info("[INFO] Creating database %s...\n", siteUser)
	err = ins.Panel.AddDatabase(cloudpanel.DatabaseRequest{
		DomainName:   domainName,
		Name:         siteUser,
		UserName:     siteUser,
		UserPassword: dbPassword,
	})
	if err != nil {
		ins.offerRollback(domainName, opts.AssumeYes)
		return fmt.Errorf("database creation failed: %w", err)
	}

	// 9. Certificate. Rate limiting is reported but does not fail the
	// install; the site works over plain HTTP until issuance is retried.
	certIssued := false
	if opts.SkipCertificate {
		logger.Warn("[WARN] Skipping certificate issuance (--skip-certificate)\n")
	} else {
		logger.Info("[INFO] Requesting Let's Encrypt certificate for %s...\n", domainName)
		switch err := ins.Panel.InstallCertificate(domainName); {
		case err == nil:
			certIssued = true
		case errors.Is(err, cloudpanel.ErrRateLimited):
			logger.Warn("[WARN] Certificate issuance is rate-limited; retry later with clpctl. The site is installed without a certificate.\n")
		default:
			logger.Error("[ERROR] Certificate issuance failed: %v\n", err)
			logger.Warn("[WARN] Continuing without a certificate.\n")
		}
	}

	// 10. Credentials file.
	installedAt := ins.now()
	credPath, err := credentials.Write(ins.Config.HomeRoot, credentials.File{
		DomainName:       domainName,
		SiteUser:         siteUser,
		SiteUserPassword: sitePassword,
		DatabaseName:     siteUser,
		DatabaseUser:     siteUser,
		DatabasePassword: dbPassword,
		PHPVersion:       phpVersion,
		VhostTemplate:    template,
		InstalledAt:      installedAt,
	})
	if err != nil {
		// The site exists and works; losing the file is bad but not worth
		// tearing the install down over. The operator sees the passwords here.
		logger.Error("[ERROR] Failed to write credentials file: %v\n", err)
		logger.Warn("[WARN] Site password: %s  Database password: %s\n", sitePassword, dbPassword)
	} else {
		logger.Info("[INFO] Credentials written to %s\n", credPath)
	}

	// 11. Record in state.
	ins.State.Sites[domainName] = state.SiteRecord{
		DomainName:    domainName,
		SiteUser:      siteUser,
		PHPVersion:    phpVersion,
		VhostTemplate: template,
		DatabaseName:  siteUser,
		Certificate:   certIssued,
		InstalledAt:   installedAt.UTC().Format(time.RFC3339),
	}

	logger.Info("[INFO] Site %s installed successfully.\n", domainName)
	return nil
}

// choosePHPVersion resolves the PHP version from a flag or a menu. A flagged
// version must actually be installed; guessing at a close match would
// provision a site the server cannot serve.
func (ins *Installer) choosePHPVersion(flagged string) (string, error) {
	versions, err := phpver.List(ins.Config.PHPRoot)
	if err != nil {
		return "", err
	}
	if flagged != "" {
		for _, v := range versions {
			if v == flagged {
				return v, nil
			}
		}
		return "", fmt.Errorf("PHP version %s is not installed (found: %v)", flagged, versions)
	}
	return ins.Prompt.Select("Choose a PHP version", versions)
}

// chooseTemplate resolves the vhost template from a flag or a menu.
func (ins *Installer) chooseTemplate(flagged string) (string, error) {
	templates, err := vhost.List(ins.Config.TemplatesDir)
	if err != nil {
		return "", err
	}
	if flagged != "" {
		for _, tpl := range templates {
			if tpl == flagged {
				return tpl, nil
			}
		}
		return "", fmt.Errorf("vhost template %s not found (available: %v)", flagged, templates)
	}
	return ins.Prompt.Select("Choose a vhost template", templates)
}

// askDomain returns a validated, normalized domain. A flagged domain is
// validated once and failure is fatal (nobody is there to re-type it);
// interactive input re-prompts until it validates.
func (ins *Installer) askDomain(flagged string) (string, error) {
	if flagged != "" {
		if err := domain.Validate(flagged); err != nil {
			return "", err
		}
		return domain.Normalize(flagged), nil
	}

	for {
		answer, err := ins.Prompt.Ask("Enter the domain name (e.g. www.domain.com)")
		if err != nil {
			return "", err
		}
		if err := domain.Validate(answer); err != nil {
			logger.Error("[ERROR] %q is not a valid domain name, please try again.\n", answer)
			continue
		}
		return domain.Normalize(answer), nil
	}
}

// confirmDNS runs the record check and, when the result is anything but a
// match, asks the operator whether to continue anyway.
func (ins *Installer) confirmDNS(ctx context.Context, domainName string, assumeYes bool) error {
	res := ins.DNS.Check(ctx, domainName)
	switch res.Outcome {
	case dnscheck.Match:
		logger.Info("[INFO] DNS for %s points at this server (%s).\n", domainName, res.ServerIP)
		return nil
	case dnscheck.Mismatch:
		logger.Warn("[WARN] DNS for %s resolves to %v, not this server (%s).\n", domainName, res.Records, res.ServerIP)
	case dnscheck.NoRecord:
		logger.Warn("[WARN] %s has no DNS record yet.\n", domainName)
	}

	if assumeYes {
		logger.Warn("[WARN] Continuing despite DNS result (--yes).\n")
		return nil
	}
	ok, err := ins.Prompt.Confirm("Continue anyway?")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("aborted: DNS for %s does not point at this server", domainName)
	}
	return nil
}

// offerRollback asks whether to delete the just-created site after a later
// step failed, leaving the server as it was before the run.
func (ins *Installer) offerRollback(domainName string, assumeYes bool) {
	remove := assumeYes
	if !assumeYes {
		ok, err := ins.Prompt.Confirm("Site was created but a later step failed. Delete the site again?")
		if err != nil {
			return
		}
		remove = ok
	}
	if !remove {
		return
	}
	if err := ins.Panel.DeleteSite(domainName, true); err != nil {
		logger.Error("[ERROR] Rollback failed, remove the site manually: %v\n", err)
		return
	}
	logger.Info("[INFO] Rolled back site %s.\n", domainName)
}
