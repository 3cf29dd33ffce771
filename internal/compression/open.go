// Package compression opens LUT files that may be compressed or packed in an archive.
package compression

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/lut3d/internal/security"
)

// MaxDecompressedSize caps how much data is read out of a compressed LUT.
// The largest supported grid is well under a megabyte of text.
const MaxDecompressedSize = 64 * 1024 * 1024

// ArchiveSeparator splits an archive path from the member to read, as in
// "pack.zip#film/grade.cube".
const ArchiveSeparator = "#"

// Suffixes returns the compression suffixes understood by Open.
func Suffixes() []string {
	return []string{".gz", ".bz2", ".xz"}
}

// StripSuffix removes a trailing compression suffix or archive prefix from
// path, yielding the name whose extension identifies the LUT format.
func StripSuffix(path string) string {
	if archive, member, ok := splitArchive(path); ok && archive != "" {
		path = member
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range Suffixes() {
		if ext == s {
			return strings.TrimSuffix(path, filepath.Ext(path))
		}
	}
	return path
}

// Open opens path for reading, decompressing gzip, bzip2 and xz files
// according to their suffix. A path of the form "archive.zip#member" reads
// member from the zip archive. The caller must close the returned reader.
func Open(path string) (io.ReadCloser, error) {
	if archive, member, ok := splitArchive(path); ok {
		return openZipMember(archive, member)
	}

	f, err := os.Open(path) // #nosec G304 - User-specified LUT path, intended to be read
	if err != nil {
		return nil, err
	}

	rc, err := wrap(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// wrap layers a decompressor matching path's suffix over r.
func wrap(r io.ReadCloser, path string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &stackedReader{Reader: security.NewLimitedReader(gzr, MaxDecompressedSize), closers: []io.Closer{gzr, r}}, nil
	case ".xz":
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return &stackedReader{Reader: security.NewLimitedReader(xzr, MaxDecompressedSize), closers: []io.Closer{r}}, nil
	case ".bz2":
		bzr := bzip2.NewReader(r)
		return &stackedReader{Reader: security.NewLimitedReader(bzr, MaxDecompressedSize), closers: []io.Closer{r}}, nil
	default:
		return r, nil
	}
}

func splitArchive(path string) (archive, member string, ok bool) {
	idx := strings.Index(path, ".zip"+ArchiveSeparator)
	if idx == -1 {
		return "", "", false
	}
	cut := idx + len(".zip")
	return path[:cut], path[cut+len(ArchiveSeparator):], true
}

// stackedReader closes every layer of a decompression stack, innermost last.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
