// Package http fetches remote LUT files and images.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmylchreest/lut3d/internal/security"
	"github.com/jmylchreest/lut3d/internal/version"
)

const (
	// UserAgentName is the application name used in the User-Agent header.
	UserAgentName = "lut3d"

	// DefaultTimeout bounds a whole request including the body.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes caps a response body. Remote images are the largest
	// thing fetched.
	DefaultMaxBytes = 256 * 1024 * 1024
)

// FetchOptions configures a Fetch call. The zero value uses the defaults.
type FetchOptions struct {
	Timeout  time.Duration
	MaxBytes int64

	// Headers are added to the request after User-Agent, so they may replace it.
	Headers map[string]string

	// Client replaces the default client, mainly for tests.
	Client *http.Client
}

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s: %s", e.Code, e.URL, e.Status)
}

// Fetch downloads url into memory. The body is limited to opts.MaxBytes;
// exceeding it returns security.ErrSizeLimit.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgentName+"/"+version.Short())
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Status: resp.Status}
	}
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", security.ErrSizeLimit, url, resp.ContentLength, maxBytes)
	}

	data, err := io.ReadAll(security.NewLimitedReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
