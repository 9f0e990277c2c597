// Package credentials writes the site_credentials.txt file dropped into the
// new site user's home directory at the end of an install. The path pattern
// {homeRoot}/{siteUser}/site_credentials.txt and owner-only permissions are
// a contract with the control plane's home-directory layout.
package credentials

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"site-installer/internal/logger"
)

// File is everything recorded in the credentials file.
type File struct {
	DomainName       string
	SiteUser         string
	SiteUserPassword string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string
	PHPVersion       string
	VhostTemplate    string
	InstalledAt      time.Time
}

// Path returns where the credentials file for siteUser lives.
func Path(homeRoot, siteUser string) string {
	return filepath.Join(homeRoot, siteUser, "site_credentials.txt")
}

// Render produces the file body. Kept separate from Write so tests can check
// content without a home directory tree.
func Render(f File) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Site credentials for %s\n", f.DomainName)
	fmt.Fprintf(&b, "Generated by site-installer on %s\n", f.InstalledAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "Domain:            %s\n", f.DomainName)
	fmt.Fprintf(&b, "PHP version:       %s\n", f.PHPVersion)
	fmt.Fprintf(&b, "Vhost template:    %s\n", f.VhostTemplate)
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "Site user:         %s\n", f.SiteUser)
	fmt.Fprintf(&b, "Site password:     %s\n", f.SiteUserPassword)
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "Database name:     %s\n", f.DatabaseName)
	fmt.Fprintf(&b, "Database user:     %s\n", f.DatabaseUser)
	fmt.Fprintf(&b, "Database password: %s\n", f.DatabasePassword)
	return b.String()
}

// Write renders the file into {homeRoot}/{siteUser}/site_credentials.txt,
// mode 0600, and chowns it to the site user. The chown is best-effort: when
// it fails (tests, non-root runs) the file still exists with owner-only
// permissions and a warning is logged.
func Write(homeRoot string, f File) (string, error) {
	path := Path(homeRoot, f.SiteUser)

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("failed to create home directory for %s: %w", f.SiteUser, err)
	}

	if err := os.WriteFile(path, []byte(Render(f)), 0600); err != nil {
		return "", fmt.Errorf("failed to write credentials file %s: %w", path, err)
	}
	logger.Debug("[DEBUG] Wrote credentials file %s\n", path)

	// chown {siteUser}:{siteUser}; the account was just created by clpctl.
	cmd := exec.Command("chown", f.SiteUser+":"+f.SiteUser, path)
	if output, err := cmd.CombinedOutput(); err != nil {
		logger.Warn("[WARN] Could not chown %s to %s: %v\nOutput: %s\n", path, f.SiteUser, err, output)
	}

	return path, nil
}
