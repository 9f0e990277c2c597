package main

import (
	"site-installer/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The site-installer project is a website provisioning tool for servers managed
// by the CloudPanel control plane. It:
//   - Walks an operator through an interactive install wizard: PHP runtime version,
//     vhost template, domain name (validated and re-prompted on bad input), and an
//     advisory DNS check against the server's own public IP
//   - Derives a canonical site identifier from the domain, used as the operating-system
//     account name, database name, and database user name
//   - Sequences calls to the external `clpctl` binary to create the site and database
//     and to request a Let's Encrypt certificate
//   - Writes a credentials file into the new site user's home directory, readable by
//     that user only
//   - Maintains a JSON state file recording provisioned sites, enabling `list` and
//     guarding against double-provisioning the same domain
//
// Error handling strategy:
//   - Invalid operator input (domain format, menu choices) is never fatal; the wizard
//     re-prompts until it gets something usable or the operator aborts
//   - Failures from the external control plane abort the install with the captured
//     command output, except certificate rate-limiting which is reported and skipped
//     since the site is functional without the certificate
//
// Integration points:
//   - CloudPanel's `clpctl` binary for all site/database/certificate operations
//   - The system DNS resolver for the advisory record check
//   - The filesystem for PHP version and vhost template discovery and for the
//     credentials file contract (/home/{siteUser}/site_credentials.txt)
func main() {
	cmd.Execute()
}
