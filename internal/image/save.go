package image

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultJPEGQuality is used when SaveOptions.Quality is zero.
const DefaultJPEGQuality = 92

// SaveOptions configures image encoding.
type SaveOptions struct {
	// Quality is the JPEG quality (1-100).
	Quality int
}

// EncoderFormat returns the encoder name selected by path's extension.
func EncoderFormat(path string) (string, error) {
	if f, ok := formatForPath(path); ok && f.writable {
		return f.name, nil
	}
	return "", fmt.Errorf("unsupported output format: %q (supported: %s)", filepath.Ext(path), strings.Join(writableFormats(), ", "))
}

func writableFormats() []string {
	var names []string
	for _, f := range fileFormats {
		if f.writable {
			names = append(names, f.name)
		}
	}
	return names
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string, opts SaveOptions) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		quality := opts.Quality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case "bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Save encodes img to path using the format implied by its extension.
func Save(path string, img image.Image, opts SaveOptions) error {
	format, err := EncoderFormat(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Encode(out, img, format, opts); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
