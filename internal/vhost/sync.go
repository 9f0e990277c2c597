package vhost

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"site-installer/internal/config"
	"site-installer/internal/logger"
)

// GitHubRelease represents the structure of a GitHub release JSON response.
type GitHubRelease struct {
	TagName string `json:"tag_name"` // The release tag (e.g., v1.0.0)
	Assets  []struct {
		Name               string `json:"name"`                 // Asset filename
		BrowserDownloadURL string `json:"browser_download_url"` // Direct download URL for the asset
	} `json:"assets"`
}

// archiveSuffixes are the asset formats Sync knows how to unpack.
var archiveSuffixes = []string{".zip", ".7z", ".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz"}

// Sync downloads the template-pack archive attached to the configured GitHub
// release and installs every template file it contains into templatesDir,
// overwriting templates of the same name. It returns the number of templates
// installed.
func Sync(pack config.TemplatePack, templatesDir string) (int, error) {
	if pack.Repo == "" {
		return 0, fmt.Errorf("no template pack repository configured")
	}

	release, err := fetchRelease(pack)
	if err != nil {
		return 0, err
	}
	logger.Debug("[DEBUG] Release tag: %s with %d assets\n", release.TagName, len(release.Assets))

	// Pick the first asset in a format we can unpack.
	var assetURL, assetName string
	for _, asset := range release.Assets {
		if isArchive(asset.Name) {
			assetURL = asset.BrowserDownloadURL
			assetName = asset.Name
			break
		}
	}
	if assetURL == "" {
		return 0, fmt.Errorf("release %s of %s has no archive asset", release.TagName, pack.Repo)
	}

	// Download the asset into a scratch directory that disappears afterwards.
	workDir, err := os.MkdirTemp("", "site-installer-templates-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	archivePath := filepath.Join(workDir, path.Base(assetName))
	logger.Info("[INFO] Downloading template pack %s (%s)\n", assetName, release.TagName)
	if err := downloadFile(assetURL, archivePath); err != nil {
		return 0, err
	}

	extractedRoot, err := extractArchive(archivePath, workDir)
	if err != nil {
		return 0, fmt.Errorf("failed to extract template pack: %w", err)
	}

	return installTemplates(extractedRoot, templatesDir)
}

// fetchRelease retrieves the release metadata for the configured tag, or the
// latest release when no tag is pinned.
func fetchRelease(pack config.TemplatePack) (*GitHubRelease, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", pack.Repo)
	if pack.Tag != "" {
		url = fmt.Sprintf("https://api.github.com/repos/%s/releases/tags/%s", pack.Repo, pack.Tag)
	}
	logger.Debug("[DEBUG] Fetching GitHub release from URL: %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET error fetching release for %s: %w", pack.Repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("GitHub release fetch failed for %s: HTTP status %d", pack.Repo, resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub release JSON for %s: %w", pack.Repo, err)
	}
	return &release, nil
}

// downloadFile downloads the content at url and saves it to destPath.
func downloadFile(url, destPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()

	if resp.StatusCode != 200 {
		return fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close destination file: %s\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded template pack to: %s\n", destPath)
	return nil
}

// installTemplates walks the extracted tree and copies every template file
// into templatesDir, flattening any directory structure the pack carries.
func installTemplates(root, templatesDir string) (int, error) {
	if err := os.MkdirAll(templatesDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create templates dir %s: %w", templatesDir, err)
	}

	count := 0
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTemplateFile(d.Name()) {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", p, err)
		}
		dest := filepath.Join(templatesDir, d.Name())
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return fmt.Errorf("failed to install template %s: %w", dest, err)
		}
		logger.Info("[INFO] Installed template %s\n", d.Name())
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	if count == 0 {
		return 0, fmt.Errorf("template pack contained no template files")
	}
	return count, nil
}

// isArchive reports whether filename ends in a supported archive suffix.
func isArchive(filename string) bool {
	lower := strings.ToLower(filename)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
