// Package lutcache downloads remote LUT files and keeps them on disk.
package lutcache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/lut3d/internal/compression"
	"github.com/jmylchreest/lut3d/internal/security"
	httputil "github.com/jmylchreest/lut3d/internal/util/http"
)

// CacheOptions configures LUT caching behavior.
type CacheOptions struct {
	// CacheDir is the directory where LUTs will be cached.
	// If empty, defaults to ~/.cache/lut3d/luts
	CacheDir string

	// AllowOverwrite re-downloads even when a cached copy exists.
	AllowOverwrite bool

	// AllowInsecure permits plain HTTP and private hosts. Only meant for
	// tests against a local server.
	AllowInsecure bool

	// Fetch overrides the HTTP options used for the download.
	Fetch httputil.FetchOptions
}

// IsRemote reports whether location is an HTTP(S) URL rather than a local path.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "lut3d", "luts"), nil
	}
	return filepath.Join(cacheDir, "lut3d", "luts"), nil
}

// Filename derives a deterministic cache file name from a URL. The name
// keeps the URL's extensions (including a compression suffix) so the LUT
// format can still be detected from it.
func Filename(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	hashStr := fmt.Sprintf("%x", hash[:16])

	name := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		name = u.Path
	}
	base := path.Base(name)

	ext := path.Ext(base)
	for _, s := range compression.Suffixes() {
		if strings.EqualFold(ext, s) {
			ext = path.Ext(strings.TrimSuffix(base, ext)) + ext
			break
		}
	}
	if len(ext) > 10 {
		ext = ""
	}
	return hashStr + strings.ToLower(ext)
}

// DownloadAndCache downloads a remote LUT and saves it to the cache directory.
// Returns the local file path where the LUT was saved.
func DownloadAndCache(ctx context.Context, rawURL string, opts CacheOptions) (string, error) {
	if !IsRemote(rawURL) {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}
	policy := security.DefaultURLPolicy
	if opts.AllowInsecure {
		policy = security.URLPolicy{AllowPlainHTTP: true, AllowPrivateHosts: true}
	}
	if err := policy.Check(rawURL); err != nil {
		return "", err
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		defaultDir, err := DefaultCacheDir()
		if err != nil {
			return "", err
		}
		cacheDir = defaultDir
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	filename := Filename(rawURL)
	if err := security.ValidateFileName(filename, cacheDir); err != nil {
		return "", err
	}
	cachedPath := filepath.Join(cacheDir, filename)

	if !opts.AllowOverwrite {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	data, err := httputil.Fetch(ctx, rawURL, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download LUT: %w", err)
	}

	// The cache never holds a partially written LUT.
	tmp, err := os.CreateTemp(cacheDir, filename+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached LUT: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached LUT: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachedPath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move cached LUT into place: %w", err)
	}

	return cachedPath, nil
}
