package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the installer configuration, loaded from a single YAML file.
// Every field has a sensible default for a stock CloudPanel server, so the
// tool runs without any config file at all; the file exists for unusual
// layouts (non-standard clpctl path, alternate template directory) and for
// pinning the server IP when automatic detection is wrong (e.g. behind NAT).
type Config struct {
	// ClpctlPath is the CloudPanel control-plane binary invoked for all
	// site/database/certificate operations.
	ClpctlPath string `yaml:"clpctl_path"`

	// PHPRoot is the directory whose version-named subdirectories
	// (e.g. /etc/php/8.3) enumerate the installed PHP runtimes.
	PHPRoot string `yaml:"php_root"`

	// TemplatesDir holds the vhost template files offered during install.
	TemplatesDir string `yaml:"templates_dir"`

	// HomeRoot is the parent of site-user home directories. The credentials
	// file is written to {HomeRoot}/{siteUser}/site_credentials.txt.
	HomeRoot string `yaml:"home_root"`

	// StatePath is the JSON file recording provisioned sites.
	StatePath string `yaml:"state_path"`

	// ServerIP overrides automatic detection of this server's public IP for
	// the advisory DNS check. Leave empty to auto-detect.
	ServerIP string `yaml:"server_ip"`

	// PasswordLength is the length of generated site-user and database
	// passwords.
	PasswordLength int `yaml:"password_length"`

	// TemplatePack points `templates sync` at a GitHub repository whose
	// releases carry vhost template archives.
	TemplatePack TemplatePack `yaml:"template_pack"`
}

// TemplatePack identifies a GitHub release holding a vhost template archive.
type TemplatePack struct {
	Repo string `yaml:"repo"` // e.g. "cloudpanel-io/vhost-templates"
	Tag  string `yaml:"tag"`  // release tag; empty means "latest"
}

// Default returns the configuration for a stock CloudPanel installation.
func Default() Config {
	return Config{
		ClpctlPath:     "clpctl",
		PHPRoot:        "/etc/php",
		TemplatesDir:   "/etc/site-installer/templates",
		HomeRoot:       "/home",
		StatePath:      "/var/lib/site-installer/state.json",
		PasswordLength: 24,
		TemplatePack: TemplatePack{
			Repo: "cloudpanel-io/vhost-templates",
		},
	}
}

// Load reads the YAML config at path, layered over Default. A missing file
// is not an error: the defaults are returned unchanged. A file that exists
// but cannot be read or parsed is an error, since silently ignoring a broken
// config would provision with settings the operator did not intend.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Zero values from an explicit-but-partial file fall back to defaults.
	def := Default()
	if cfg.ClpctlPath == "" {
		cfg.ClpctlPath = def.ClpctlPath
	}
	if cfg.PHPRoot == "" {
		cfg.PHPRoot = def.PHPRoot
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = def.TemplatesDir
	}
	if cfg.HomeRoot == "" {
		cfg.HomeRoot = def.HomeRoot
	}
	if cfg.StatePath == "" {
		cfg.StatePath = def.StatePath
	}
	if cfg.PasswordLength <= 0 {
		cfg.PasswordLength = def.PasswordLength
	}
	return cfg, nil
}
