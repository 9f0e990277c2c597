// Package dnscheck performs the advisory DNS sanity check the wizard runs
// before provisioning: does the domain already point at this server? The
// result never blocks an install on its own; the wizard reports it and lets
// the operator decide. Issuing a certificate for a domain that points
// elsewhere will fail anyway, so catching it early saves a wasted run.
package dnscheck

import (
	"context"
	"net"
	"time"

	"site-installer/internal/logger"
)

// Outcome classifies what the resolver said about the domain.
type Outcome int

const (
	// Match: at least one record equals the server's IP.
	Match Outcome = iota
	// Mismatch: records exist but none equals the server's IP.
	Mismatch
	// NoRecord: the domain has no A/AAAA records (or does not resolve).
	NoRecord
)

// Result is the outcome plus the evidence behind it.
type Result struct {
	Outcome  Outcome
	ServerIP string   // the IP the records were compared against
	Records  []string // every A/AAAA record found, empty for NoRecord
}

// lookupTimeout bounds the resolver call; an unresponsive resolver should
// not hang an interactive wizard.
const lookupTimeout = 5 * time.Second

// Checker resolves domains against a fixed server IP.
type Checker struct {
	ServerIP string

	// lookup is swappable for tests.
	lookup func(ctx context.Context, host string) ([]string, error)
}

// New returns a Checker comparing against serverIP. When serverIP is empty
// it is detected from the default outbound route.
func New(serverIP string) *Checker {
	if serverIP == "" {
		serverIP = detectServerIP()
	}
	return &Checker{
		ServerIP: serverIP,
		lookup: func(ctx context.Context, host string) ([]string, error) {
			return net.DefaultResolver.LookupHost(ctx, host)
		},
	}
}

// Check resolves the domain and compares every record against the server IP.
func (c *Checker) Check(ctx context.Context, domain string) Result {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	records, err := c.lookup(ctx, domain)
	if err != nil || len(records) == 0 {
		logger.Debug("[DEBUG] DNS lookup for %s returned no records (err: %v)\n", domain, err)
		return Result{Outcome: NoRecord, ServerIP: c.ServerIP}
	}

	res := Result{Outcome: Mismatch, ServerIP: c.ServerIP, Records: records}
	for _, r := range records {
		if r == c.ServerIP {
			res.Outcome = Match
			break
		}
	}
	return res
}

// detectServerIP finds the address of the default outbound interface by
// opening a UDP "connection" (no packets are sent) to a public resolver.
// Behind NAT this yields the private address; operators in that situation
// set server_ip in the config instead.
func detectServerIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:53")
	if err != nil {
		logger.Warn("[WARN] Could not detect server IP: %v\n", err)
		return ""
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return ""
	}
	return addr.IP.String()
}
