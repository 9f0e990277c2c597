// Package cloudpanel is the typed client for the external `clpctl` binary,
// CloudPanel's command-line control plane. This tool never talks to
// CloudPanel any other way; everything a site needs (system account, vhost,
// database, certificate) is created by sequencing clpctl invocations.
//
// clpctl reports failures as prose on stdout/stderr rather than exit-code
// taxonomy, so the client classifies captured output by substring. That text
// matching is a compatibility shim with the binary's interface and lives
// only here; callers see typed errors.
package cloudpanel

import (
	"fmt"
	"os/exec"
	"strings"

	"site-installer/internal/logger"
)

// runner executes a command and returns its combined output. The production
// runner shells out; tests substitute canned output.
type runner func(name string, args ...string) ([]byte, error)

// Client invokes clpctl operations.
type Client struct {
	// Path is the clpctl binary, usually just "clpctl" resolved via PATH.
	Path string

	run runner
}

// New returns a Client for the clpctl binary at path.
func New(path string) *Client {
	return &Client{
		Path: path,
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
	}
}

// ErrRateLimited is returned when clpctl's output indicates the Let's
// Encrypt rate limit was hit. Callers treat this as non-fatal: the site
// works without the certificate and issuance can be retried later.
var ErrRateLimited = fmt.Errorf("certificate issuance rate-limited")

// CommandError is any other clpctl failure, carrying the captured output so
// the operator sees exactly what the control plane said.
type CommandError struct {
	Op     string // the clpctl subcommand, e.g. "site:add:php"
	Output string // combined stdout/stderr, trimmed
	Err    error  // the underlying exec error, if any
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("clpctl %s failed: %s", e.Op, e.Output)
	}
	return fmt.Sprintf("clpctl %s failed: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// SiteRequest carries everything clpctl needs to create a PHP site.
type SiteRequest struct {
	DomainName       string
	PHPVersion       string
	VhostTemplate    string
	SiteUser         string
	SiteUserPassword string
}

// DatabaseRequest carries everything clpctl needs to create a database.
// Name and UserName are both the derived site identifier by convention.
type DatabaseRequest struct {
	DomainName   string
	Name         string
	UserName     string
	UserPassword string
}

// AddPHPSite creates the site: system account, vhost, PHP-FPM pool.
func (c *Client) AddPHPSite(req SiteRequest) error {
	return c.exec("site:add:php",
		"--domainName="+req.DomainName,
		"--phpVersion="+req.PHPVersion,
		"--vhostTemplate="+req.VhostTemplate,
		"--siteUser="+req.SiteUser,
		"--siteUserPassword="+req.SiteUserPassword,
	)
}

// AddDatabase creates the site's database and database user.
func (c *Client) AddDatabase(req DatabaseRequest) error {
	return c.exec("db:add",
		"--domainName="+req.DomainName,
		"--databaseName="+req.Name,
		"--databaseUserName="+req.UserName,
		"--databaseUserPassword="+req.UserPassword,
	)
}

// InstallCertificate requests a Let's Encrypt certificate for the domain.
// Returns ErrRateLimited when issuance was refused for rate-limit reasons.
func (c *Client) InstallCertificate(domainName string) error {
	return c.exec("lets-encrypt:install:certificate",
		"--domainName="+domainName,
	)
}

// DeleteSite removes the site and everything under it. force skips clpctl's
// own confirmation prompt, which would otherwise block a non-tty run.
func (c *Client) DeleteSite(domainName string, force bool) error {
	args := []string{"--domainName=" + domainName}
	if force {
		args = append(args, "--force")
	}
	return c.exec("site:delete", args...)
}

// exec runs a clpctl subcommand and classifies the result.
func (c *Client) exec(op string, args ...string) error {
	full := append([]string{op}, args...)
	logger.Debug("[DEBUG] Running command: %s %s\n", c.Path, strings.Join(redact(full), " "))

	output, err := c.run(c.Path, full...)
	text := strings.TrimSpace(string(output))

	if err == nil && !looksLikeFailure(text) {
		logger.Debug("[DEBUG] clpctl %s succeeded\n", op)
		return nil
	}

	if strings.Contains(strings.ToLower(text), "rate limit") {
		return fmt.Errorf("%w: %s", ErrRateLimited, text)
	}
	return &CommandError{Op: op, Output: text, Err: err}
}

// looksLikeFailure catches the cases where clpctl prints an error message but
// still exits zero. Scanning for "error" in the output is crude, but it is
// the interface the binary gives us.
func looksLikeFailure(output string) bool {
	return strings.Contains(strings.ToLower(output), "error")
}

// redact masks password flag values before they reach the debug log.
func redact(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if idx := strings.Index(a, "Password="); idx != -1 {
			out[i] = a[:idx+len("Password=")] + "******"
		} else {
			out[i] = a
		}
	}
	return out
}
