// Package security guards the untrusted inputs of a LUT load: remote URLs,
// cache file names and decompressed stream sizes.
package security

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrSizeLimit is returned by LimitedReader once its budget is spent.
var ErrSizeLimit = errors.New("size limit exceeded")

// URLPolicy decides which remote URLs may be fetched.
type URLPolicy struct {
	AllowPlainHTTP    bool
	AllowPrivateHosts bool
}

// DefaultURLPolicy accepts HTTPS URLs on public hosts only.
var DefaultURLPolicy = URLPolicy{}

// Check returns an error if rawURL is not allowed by p.
func (p URLPolicy) Check(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	switch scheme := strings.ToLower(u.Scheme); {
	case scheme == "https":
	case scheme == "http" && p.AllowPlainHTTP:
	default:
		return fmt.Errorf("only HTTPS URLs are allowed (got %q)", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("URL must have a hostname")
	}
	if !p.AllowPrivateHosts && isLocalOrPrivateHost(host) {
		return fmt.Errorf("URL cannot point to local or private hosts: %s", host)
	}
	return nil
}

// ValidateHTTPURL checks rawURL against DefaultURLPolicy.
func ValidateHTTPURL(rawURL string) error {
	return DefaultURLPolicy.Check(rawURL)
}

// isLocalOrPrivateHost only inspects literal addresses; names other than
// localhost are resolved later by the HTTP client.
func isLocalOrPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
}

// ValidateFileName checks that name is a relative path that stays strictly
// inside baseDir.
func ValidateFileName(name, baseDir string) error {
	if name == "" {
		return fmt.Errorf("empty file name")
	}
	if !filepath.IsLocal(name) {
		return fmt.Errorf("file name %q escapes the cache directory", name)
	}
	base := filepath.Clean(baseDir)
	if !strings.HasPrefix(filepath.Join(base, name), base+string(filepath.Separator)) {
		return fmt.Errorf("file name %q does not name a file inside the cache directory", name)
	}
	return nil
}

// LimitedReader reads at most Remaining bytes from R. Reading past the
// budget returns ErrSizeLimit; a stream that ends exactly at the budget
// still ends with io.EOF.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// NewLimitedReader returns a LimitedReader with a budget of maxBytes.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{R: r, Remaining: maxBytes}
}

func (l *LimitedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if l.Remaining <= 0 {
		var probe [1]byte
		n, err := l.R.Read(probe[:])
		if n > 0 {
			return 0, ErrSizeLimit
		}
		if err == nil {
			// A source returning (0, nil) past the budget counts as over it.
			return 0, ErrSizeLimit
		}
		return 0, err
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}
