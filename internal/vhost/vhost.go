// Package vhost manages the vhost templates offered during an install: local
// discovery, and syncing a template pack from a GitHub release into the
// templates directory.
package vhost

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// templateExtensions are the filename suffixes recognized as vhost templates.
var templateExtensions = []string{".conf", ".conf.tpl", ".tpl"}

// List returns the template names available under dir, sorted. A template's
// name is its filename with the template extension stripped, so
// "wordpress.conf" is offered as "wordpress". An empty directory is an
// error: a site cannot be created without a vhost template, and `templates
// sync` is the fix to point the operator at.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := templateName(e.Name()); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no vhost templates found in %s (run `site-installer templates sync`)", dir)
	}

	sort.Strings(names)
	return names, nil
}

// templateName strips a recognized template extension, reporting whether the
// filename was a template at all.
func templateName(filename string) (string, bool) {
	for _, ext := range templateExtensions {
		if strings.HasSuffix(filename, ext) {
			return strings.TrimSuffix(filename, ext), true
		}
	}
	return "", false
}

// isTemplateFile reports whether filename carries a template extension.
func isTemplateFile(filename string) bool {
	_, ok := templateName(filename)
	return ok
}
