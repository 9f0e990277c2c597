package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"os"            // For file system operations like reading and writing files
	"path/filepath"
	"sort"

	"site-installer/internal/logger"
)

// SiteRecord is the saved record of one provisioned site. It exists so
// `list` works offline and so a second install of the same domain is caught
// before any clpctl call is made. The control plane remains the source of
// truth; this file is a local ledger of what this tool did.
type SiteRecord struct {
	DomainName    string `json:"domain_name"`    // The fully qualified domain the site serves
	SiteUser      string `json:"site_user"`      // Derived identifier: system account, db name, db user
	PHPVersion    string `json:"php_version"`    // PHP runtime the site was created with
	VhostTemplate string `json:"vhost_template"` // Vhost template chosen at install time
	DatabaseName  string `json:"database_name"`  // Database created for the site
	Certificate   bool   `json:"certificate"`    // True if certificate issuance succeeded
	InstalledAt   string `json:"installed_at"`   // RFC 3339 timestamp of the install
}

// State holds every site this tool has provisioned, keyed by domain name.
type State struct {
	Sites map[string]SiteRecord `json:"sites"`
}

// Load reads the saved state from the JSON file at the given path.
// If the file does not exist or cannot be read, it returns a new empty State.
// The Sites map is always non-nil so callers can index it directly.
func Load(path string) *State {
	// Read entire state JSON file into memory
	file, err := os.ReadFile(path)
	if err != nil {
		// File missing or unreadable: start from an empty ledger
		return &State{Sites: make(map[string]SiteRecord)}
	}

	// Parse JSON data into a State struct
	var st State
	_ = json.Unmarshal(file, &st)

	// Ensure the map is initialized if JSON contained null
	if st.Sites == nil {
		st.Sites = make(map[string]SiteRecord)
	}
	return &st
}

// Save writes the given State to a JSON file at the given path, creating the
// parent directory if needed. It pretty-prints with indentation for
// readability. Errors are logged but not propagated: a failed ledger write
// should not undo an install that already succeeded on the control plane.
func Save(path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("[ERROR] Failed to create state directory for %s: %v\n", path, err)
		return
	}
	if err := os.WriteFile(path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}

// Domains returns the recorded domain names in sorted order, for stable
// `list` output.
func (st *State) Domains() []string {
	domains := make([]string, 0, len(st.Sites))
	for d := range st.Sites {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
