// Package domain holds the one piece of real logic in this tool: validating a
// fully qualified domain name and deriving the canonical site identifier from
// it. The identifier doubles as the operating-system account name, the
// database name, and the database user name for the provisioned site, so the
// derivation must be deterministic and must only ever emit characters that
// are safe in all three namespaces.
//
// Both functions are pure: no I/O, no state, no lookups. Whether the domain
// actually resolves or is registered is checked elsewhere (and only
// advisorily).
package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidFormat is returned by Validate when the input does not look like
// a domain name. Callers at the CLI boundary treat this as recoverable and
// re-prompt the operator.
var ErrInvalidFormat = fmt.Errorf("invalid domain format")

// domainPattern is a syntactic sanity check only: one or more characters drawn
// from letters, digits, dot, and hyphen, ending in a dot followed by an
// alphabetic top-level label of at least two characters. It deliberately does
// not try to be a full RFC hostname grammar.
var domainPattern = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)

// compoundTLDMarkers is the set of second-level labels that indicate a
// compound public suffix such as .co.uk or .com.au, where the registrable
// name sits one label deeper than in a plain .com-style domain.
//
// This is a heuristic, not a public-suffix list: suffixes whose second-level
// label is not in this set (.ac.jp, .gov.br, ...) are classified as standard
// domains. Known limitation, kept as-is.
var compoundTLDMarkers = map[string]bool{
	"co":  true,
	"com": true,
	"org": true,
	"net": true,
	"gov": true,
	"edu": true,
}

// Normalize folds a raw operator-supplied domain to the canonical form used
// by Validate and SiteUser: lowercase, surrounding whitespace removed.
// A trailing dot is not stripped; "example.com." is rejected by Validate
// rather than silently canonicalized.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Validate checks that domain is syntactically plausible. It does not verify
// that the domain resolves or is registered. The input is expected to have
// gone through Normalize; Validate applies it again so that callers passing
// raw input still get consistent answers.
func Validate(domain string) error {
	d := Normalize(domain)
	if d == "" || !domainPattern.MatchString(d) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, domain)
	}
	return nil
}

// SiteUser derives the site identifier for a validated domain. It is total on
// inputs accepted by Validate and never errors.
//
// The registrable-name label is the second label from the end, or the third
// from the end when the second-to-last label is a compound-TLD marker
// (example.co.uk). Bare domains and www-prefixed domains collapse to the
// registrable name alone, so example.com and www.example.com provision under
// the same account. Any other subdomain gets an isolated sibling identifier,
// e.g. staging.example.com -> example-staging, so multiple environments of
// the same domain never collide on the account/database namespace.
func SiteUser(domain string) string {
	labels := strings.Split(Normalize(domain), ".")
	n := len(labels)

	subdomain := labels[0]

	var mainDomain string
	if n >= 3 && compoundTLDMarkers[labels[n-2]] {
		mainDomain = labels[n-3]
	} else {
		mainDomain = labels[n-2]
	}

	if subdomain == "www" || subdomain == mainDomain {
		return mainDomain
	}
	return mainDomain + "-" + subdomain
}
