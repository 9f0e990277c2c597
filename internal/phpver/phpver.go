// Package phpver discovers which PHP runtimes are installed on the server by
// listing version-named directories under the PHP configuration root
// (Debian/Ubuntu layout: /etc/php/8.3, /etc/php/8.2, ...).
package phpver

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"site-installer/internal/logger"
)

// versionDir matches directory names that look like a PHP major.minor
// version. Anything else under the root (cli, mods-available symlink
// leftovers) is ignored.
var versionDir = regexp.MustCompile(`^\d+\.\d+$`)

// List returns the installed PHP versions found under root, newest first.
// An empty result is an error: the wizard cannot create a PHP site on a
// server with no PHP, and the operator should hear that up front.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list PHP root %s: %w", root, err)
	}

	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if versionDir.MatchString(e.Name()) {
			versions = append(versions, e.Name())
		} else {
			logger.Debug("[DEBUG] Ignoring non-version entry %s under %s\n", e.Name(), root)
		}
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("no PHP versions found under %s", root)
	}

	sort.Sort(sort.Reverse(byVersion(versions)))
	return versions, nil
}

// byVersion orders "major.minor" strings numerically, so 8.10 > 8.9.
type byVersion []string

func (v byVersion) Len() int      { return len(v) }
func (v byVersion) Swap(i, j int) { v[i], v[j] = v[j], v[i] }
func (v byVersion) Less(i, j int) bool {
	mi, ni := splitVersion(v[i])
	mj, nj := splitVersion(v[j])
	if mi != mj {
		return mi < mj
	}
	return ni < nj
}

func splitVersion(s string) (major, minor int) {
	parts := strings.SplitN(s, ".", 2)
	major, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return major, minor
}
