// Package image loads, converts and saves the images a LUT is applied to.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	httputil "github.com/jmylchreest/lut3d/internal/util/http"
)

// StdinPath names standard input as an image source.
const StdinPath = "-"

// ErrDecode is returned when image data cannot be decoded.
var ErrDecode = errors.New("failed to decode image")

// fileFormat is an image file type: its encoder name, extensions and whether
// Save can write it.
type fileFormat struct {
	name     string
	exts     []string
	writable bool
}

var fileFormats = []fileFormat{
	{name: "png", exts: []string{".png"}, writable: true},
	{name: "jpeg", exts: []string{".jpg", ".jpeg"}, writable: true},
	{name: "gif", exts: []string{".gif"}},
	{name: "webp", exts: []string{".webp"}},
	{name: "tiff", exts: []string{".tif", ".tiff"}, writable: true},
	{name: "bmp", exts: []string{".bmp"}, writable: true},
}

func formatForPath(path string) (fileFormat, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range fileFormats {
		for _, e := range f.exts {
			if e == ext {
				return f, true
			}
		}
	}
	return fileFormat{}, false
}

// SupportedImageExtensions returns the extensions of every readable image type.
func SupportedImageExtensions() []string {
	var exts []string
	for _, f := range fileFormats {
		exts = append(exts, f.exts...)
	}
	return exts
}

// IsImageFile reports whether path has a readable image extension.
func IsImageFile(path string) bool {
	_, ok := formatForPath(path)
	return ok
}

// Loader reads an image from a named source.
type Loader interface {
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader reads images from the local filesystem. The format is sniffed
// from the content, not the extension.
type FileLoader struct{}

// NewFileLoader returns a FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load decodes the image at path.
func (l *FileLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("image file not found: %s", path)
	case err != nil:
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	case info.IsDir():
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	return decode(f, path)
}

// SmartLoader reads images from local files, HTTP(S) URLs or standard input.
type SmartLoader struct {
	files *FileLoader
	stdin io.Reader
	fetch httputil.FetchOptions
}

// NewSmartLoader returns a SmartLoader reading "-" from os.Stdin.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{
		files: NewFileLoader(),
		stdin: os.Stdin,
	}
}

// WithStdin replaces the reader used for StdinPath.
func (l *SmartLoader) WithStdin(r io.Reader) *SmartLoader {
	l.stdin = r
	return l
}

// Load decodes the image named by path.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	switch {
	case path == StdinPath:
		return decode(l.stdin, "stdin")
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		data, err := httputil.Fetch(ctx, path, l.fetch)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
		return decode(bytes.NewReader(data), path)
	default:
		return l.files.Load(ctx, path)
	}
}

func decode(r io.Reader, name string) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if format == "" {
			format = "unknown"
		}
		return nil, fmt.Errorf("%w %s (format: %s): %v", ErrDecode, name, format, err)
	}
	return img, nil
}
