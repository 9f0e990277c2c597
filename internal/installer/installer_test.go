package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-installer/internal/cloudpanel"
	"site-installer/internal/config"
	"site-installer/internal/dnscheck"
	"site-installer/internal/prompt"
	"site-installer/internal/state"
)

// fakePanel records control-plane calls and fails on demand.
type fakePanel struct {
	sites   []cloudpanel.SiteRequest
	dbs     []cloudpanel.DatabaseRequest
	certs   []string
	deletes []string
	siteErr error
	dbErr   error
	certErr error
	delErr  error
}

func (f *fakePanel) AddPHPSite(req cloudpanel.SiteRequest) error {
	f.sites = append(f.sites, req)
	return f.siteErr
}

func (f *fakePanel) AddDatabase(req cloudpanel.DatabaseRequest) error {
	f.dbs = append(f.dbs, req)
	return f.dbErr
}

func (f *fakePanel) InstallCertificate(domainName string) error {
	f.certs = append(f.certs, domainName)
	return f.certErr
}

func (f *fakePanel) DeleteSite(domainName string, force bool) error {
	f.deletes = append(f.deletes, domainName)
	return f.delErr
}

// fakeDNS always answers with a fixed result.
type fakeDNS struct{ result dnscheck.Result }

func (f *fakeDNS) Check(ctx context.Context, domainName string) dnscheck.Result {
	return f.result
}

// testEnv builds an installer over temp dirs with one PHP version and one
// template on disk, a matching DNS answer, and the given prompt script.
func testEnv(t *testing.T, script string) (*Installer, *fakePanel, config.Config) {
	t.Helper()

	phpRoot := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(phpRoot, "8.3"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(phpRoot, "8.1"), 0755))

	templatesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(templatesDir, "generic.conf"), []byte("server {}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(templatesDir, "wordpress.conf"), []byte("server {}"), 0644))

	cfg := config.Default()
	cfg.PHPRoot = phpRoot
	cfg.TemplatesDir = templatesDir
	cfg.HomeRoot = t.TempDir()
	cfg.PasswordLength = 24

	panel := &fakePanel{}
	ins := New(cfg, &state.State{Sites: map[string]state.SiteRecord{}}, panel,
		prompt.New(strings.NewReader(script), io.Discard),
		&fakeDNS{result: dnscheck.Result{Outcome: dnscheck.Match, ServerIP: "203.0.113.7"}})
	ins.now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	return ins, panel, cfg
}

func TestRunNonInteractive(t *testing.T) {
	ins, panel, cfg := testEnv(t, "")

	err := ins.Run(context.Background(), Options{
		Domain:     "staging.example.com",
		PHPVersion: "8.3",
		Template:   "generic",
		AssumeYes:  true,
	})
	require.NoError(t, err)

	// Site created with the derived identifier.
	require.Len(t, panel.sites, 1)
	site := panel.sites[0]
	assert.Equal(t, "staging.example.com", site.DomainName)
	assert.Equal(t, "8.3", site.PHPVersion)
	assert.Equal(t, "generic", site.VhostTemplate)
	assert.Equal(t, "example-staging", site.SiteUser)
	assert.Len(t, site.SiteUserPassword, 24)

	// Database name and user both equal the site user.
	require.Len(t, panel.dbs, 1)
	db := panel.dbs[0]
	assert.Equal(t, "example-staging", db.Name)
	assert.Equal(t, "example-staging", db.UserName)
	assert.Len(t, db.UserPassword, 24)
	assert.NotEqual(t, site.SiteUserPassword, db.UserPassword)

	// Certificate requested.
	assert.Equal(t, []string{"staging.example.com"}, panel.certs)

	// Credentials file written under the site user's home.
	credPath := filepath.Join(cfg.HomeRoot, "example-staging", "site_credentials.txt")
	body, err := os.ReadFile(credPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), site.SiteUserPassword)
	assert.Contains(t, string(body), db.UserPassword)

	// State records the install.
	rec, ok := ins.State.Sites["staging.example.com"]
	require.True(t, ok)
	assert.Equal(t, "example-staging", rec.SiteUser)
	assert.True(t, rec.Certificate)
	assert.Equal(t, "2026-08-25T12:00:00Z", rec.InstalledAt)
}

func TestRunInteractiveWizard(t *testing.T) {
	// Script: pick PHP 8.1 (option 2), template wordpress (option 2), then a
	// bad domain, then a good one.
	script := "2\n2\nnot a domain\nwww.example.com\n"
	ins, panel, _ := testEnv(t, script)

	err := ins.Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Len(t, panel.sites, 1)
	site := panel.sites[0]
	assert.Equal(t, "8.1", site.PHPVersion)
	assert.Equal(t, "wordpress", site.VhostTemplate)
	assert.Equal(t, "www.example.com", site.DomainName)
	assert.Equal(t, "example", site.SiteUser, "www collapses to the bare identifier")
}

func TestRunRefusesKnownDomain(t *testing.T) {
	ins, panel, _ := testEnv(t, "")
	ins.State.Sites["example.com"] = state.SiteRecord{DomainName: "example.com"}

	err := ins.Run(context.Background(), Options{
		Domain: "example.com", PHPVersion: "8.3", Template: "generic", AssumeYes: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already provisioned")
	assert.Empty(t, panel.sites, "no control-plane call for a known domain")
}

func TestRunUnknownPHPVersionFlag(t *testing.T) {
	ins, _, _ := testEnv(t, "")
	err := ins.Run(context.Background(), Options{
		Domain: "example.com", PHPVersion: "5.6", Template: "generic", AssumeYes: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not installed")
}

func TestRunDNSMismatchAborts(t *testing.T) {
	ins, panel, _ := testEnv(t, "n\n")
	ins.DNS = &fakeDNS{result: dnscheck.Result{
		Outcome:  dnscheck.Mismatch,
		ServerIP: "203.0.113.7",
		Records:  []string{"198.51.100.1"},
	}}

	err := ins.Run(context.Background(), Options{
		Domain: "example.com", PHPVersion: "8.3", Template: "generic",
	})
	require.Error(t, err)
	assert.Empty(t, panel.sites)
}

func TestRunDNSMismatchContinueConfirmed(t *testing.T) {
	ins, panel, _ := testEnv(t, "y\n")
	ins.DNS = &fakeDNS{result: dnscheck.Result{Outcome: dnscheck.NoRecord, ServerIP: "203.0.113.7"}}

	err := ins.Run(context.Background(), Options{
		Domain: "example.com", PHPVersion: "8.3", Template: "generic",
	})
	require.NoError(t, err)
	assert.Len(t, panel.sites, 1)
}

func TestRunSkipDNSCheck(t *testing.T) {
	ins, panel, _ := testEnv(t, "")
	ins.DNS = &fakeDNS{result: dnscheck.Result{Outcome: dnscheck.Mismatch}}

	err := ins.Run(context.Background(), Options{
		Domain: "example.com", PHPVersion: "8.3", Template: "generic",
		SkipDNSCheck: true, AssumeYes: true,
	})
	require.NoError(t, err)
	assert.Len(t, panel.sites, 1)
}

func TestRunDatabaseFailureRollsBack(t *testing.T) {
	ins, panel, _ := testEnv(t, "")
	panel.dbErr = fmt.Errorf("db refused")

	err := ins.Run(context.Background(), Options{
		Domain: "example.com", PHPVersion: "8.3", Template: "generic", AssumeYes: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database creation failed")
	assert.Equal(t, []string{"example.com"}, panel.deletes, "site rolled back with --yes")
	assert.NotContains(t, ins.State.Sites, "example.com")
}

func TestRunRateLimitedCertificateDoesNotFail(t *testing.T) {
	ins, panel, _ := testEnv(t, "")
	panel.certErr = fmt.Errorf("%w: too many certificates", cloudpanel.ErrRateLimited)

	err := ins.Run(context.Background(), Options{
		Domain: "example.com", PHPVersion: "8.3", Template: "generic", AssumeYes: true,
	})
	require.NoError(t, err)

	rec := ins.State.Sites["example.com"]
	assert.False(t, rec.Certificate, "rate-limited install is recorded without a certificate")
}

func TestRunSkipCertificate(t *testing.T) {
	ins, panel, _ := testEnv(t, "")

	err := ins.Run(context.Background(), Options{
		Domain: "example.com", PHPVersion: "8.3", Template: "generic",
		SkipCertificate: true, AssumeYes: true,
	})
	require.NoError(t, err)
	assert.Empty(t, panel.certs)
}

func TestDelete(t *testing.T) {
	t.Run("confirmed delete removes state record", func(t *testing.T) {
		ins, panel, _ := testEnv(t, "y\n")
		ins.State.Sites["example.com"] = state.SiteRecord{DomainName: "example.com"}

		require.NoError(t, ins.Delete("example.com", false))
		assert.Equal(t, []string{"example.com"}, panel.deletes)
		assert.NotContains(t, ins.State.Sites, "example.com")
	})

	t.Run("declined confirmation aborts", func(t *testing.T) {
		ins, panel, _ := testEnv(t, "n\n")
		err := ins.Delete("example.com", false)
		require.Error(t, err)
		assert.Empty(t, panel.deletes)
	})

	t.Run("invalid domain is rejected before any call", func(t *testing.T) {
		ins, panel, _ := testEnv(t, "")
		err := ins.Delete("not a domain", true)
		require.Error(t, err)
		assert.Empty(t, panel.deletes)
	})

	t.Run("control-plane failure propagates", func(t *testing.T) {
		ins, panel, _ := testEnv(t, "")
		panel.delErr = fmt.Errorf("exit status 1")
		err := ins.Delete("example.com", true)
		assert.Error(t, err)
	})
}
