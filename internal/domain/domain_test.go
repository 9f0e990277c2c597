package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("accepts plausible domains", func(t *testing.T) {
		for _, d := range []string{
			"example.com",
			"www.example.com",
			"staging.example.co.uk",
			"my-shop.example.net",
			"123.example.org",
			"a.bc",
		} {
			assert.NoError(t, Validate(d), "domain %q", d)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, d := range []string{
			"",
			"example",         // no TLD
			"example.c",       // TLD too short
			"example.c0m",     // TLD must be alphabetic
			"exa mple.com",    // whitespace inside
			"example.com.",    // trailing dot rejected, not stripped
			"http://foo.com",  // scheme is not part of a domain
			"foo_bar.com",     // underscore not allowed
			"müller.de",       // non-ASCII must be punycoded first
			".com",            // no label before the suffix
			"example.com/abc", // path
		} {
			err := Validate(d)
			require.Error(t, err, "domain %q", d)
			assert.True(t, errors.Is(err, ErrInvalidFormat), "domain %q", d)
		}
	})

	t.Run("folds case before matching", func(t *testing.T) {
		assert.NoError(t, Validate("WWW.Example.COM"))
	})

	t.Run("error names the offending input", func(t *testing.T) {
		err := Validate("not a domain")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a domain")
	})
}

func TestSiteUser(t *testing.T) {
	cases := []struct {
		domain string
		want   string
	}{
		// Standard two-label domain.
		{"example.com", "example"},
		// www collapses to the bare identifier.
		{"www.example.com", "example"},
		// Other subdomains get an isolated sibling identifier.
		{"staging.example.com", "example-staging"},
		{"mail.example.com", "example-mail"},
		// Compound TLD: registrable name is one label deeper.
		{"staging.example.co.uk", "example-staging"},
		{"www.example.co.uk", "example"},
		{"example.com.au", "example"},
		// Marker match on a bare compound domain: subdomain and main domain
		// are the same label, so they collapse.
		{"example.co.za", "example"},
		// Three labels whose second-to-last is NOT a marker fall through to
		// the standard branch.
		{"mail.example.dev", "example-mail"},
		// Deep subdomain: only the first label counts as the subdomain.
		{"a.b.example.com", "example-a"},
		// Case folding applies before derivation.
		{"Staging.Example.COM", "example-staging"},
	}
	for _, tc := range cases {
		t.Run(tc.domain, func(t *testing.T) {
			assert.Equal(t, tc.want, SiteUser(tc.domain))
		})
	}
}

// TestSiteUserCompoundTraceExampleCoZa pins the exact trace for example.co.za:
// labels [example co za], n=3, second-to-last label "co" is a marker, so the
// main domain is labels[0] = "example"; the subdomain is also labels[0], the
// two are equal, and the identifier is "example" with no suffix.
func TestSiteUserCompoundTraceExampleCoZa(t *testing.T) {
	require.Equal(t, "example", SiteUser("example.co.za"))
}

func TestSiteUserDeterministic(t *testing.T) {
	for _, d := range []string{"example.com", "staging.example.co.uk", "mail.example.com"} {
		assert.Equal(t, SiteUser(d), SiteUser(d), "derivation must be idempotent for %q", d)
	}
}

// TestSiteUserOutputIsAccountSafe checks the derived identifier only contains
// characters valid in a system account name and database name, for a spread
// of inputs that pass validation.
func TestSiteUserOutputIsAccountSafe(t *testing.T) {
	inputs := []string{
		"example.com",
		"WWW.EXAMPLE.COM",
		"my-shop.example.co.uk",
		"123-app.example.net",
		"x.y.z.example.gov.uk",
	}
	for _, d := range inputs {
		require.NoError(t, Validate(d))
		id := SiteUser(d)
		require.NotEmpty(t, id)
		for _, r := range id {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			assert.True(t, ok, "identifier %q for %q contains unsafe rune %q", id, d, r)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "example.com", Normalize("  Example.COM "))
	assert.Equal(t, "example.com.", Normalize("example.com."), "trailing dot is preserved for Validate to reject")
}
