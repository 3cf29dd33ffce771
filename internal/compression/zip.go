package compression

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/lut3d/internal/security"
)

// openZipMember opens member inside the zip archive at archivePath.
func openZipMember(archivePath, member string) (io.ReadCloser, error) {
	if member == "" {
		return nil, fmt.Errorf("no member named in %q", archivePath+ArchiveSeparator)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	f, err := findZipMember(&zr.Reader, member)
	if err != nil {
		zr.Close()
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("failed to open file in archive: %w", err)
	}

	// Limit decompression size to prevent zip bombs.
	limited := &stackedReader{
		Reader:  security.NewLimitedReader(rc, MaxDecompressedSize),
		closers: []io.Closer{rc, zr},
	}
	inner, err := wrap(limited, member)
	if err != nil {
		limited.Close()
		return nil, err
	}
	return inner, nil
}

// findZipMember prefers an exact name, then a path suffix, then a unique
// base-name match.
func findZipMember(zr *zip.Reader, member string) (*zip.File, error) {
	type candidate struct {
		file     *zip.File
		priority int
	}

	selectFile := func(name string) int {
		switch {
		case name == member:
			return 100
		case strings.HasSuffix(name, "/"+member):
			return 90
		case filepath.Base(name) == filepath.Base(member):
			return 50
		default:
			return 0
		}
	}

	var best *candidate
	var ambiguous bool
	var foundFiles []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		foundFiles = append(foundFiles, f.Name)
		priority := selectFile(f.Name)
		if priority == 0 {
			continue
		}
		switch {
		case best == nil || priority > best.priority:
			best = &candidate{file: f, priority: priority}
			ambiguous = false
		case priority == best.priority:
			ambiguous = true
		}
	}

	if best == nil {
		return nil, fmt.Errorf("file '%s' not found in archive (found: %v)", member, foundFiles)
	}
	if ambiguous && best.priority < 100 {
		return nil, fmt.Errorf("multiple files in archive match '%s' (found: %v)", member, foundFiles)
	}
	return best.file, nil
}

// ListArchive returns the names of the members of a zip archive that look
// like LUT files, skipping directories.
func ListArchive(archivePath string, isLUT func(name string) bool) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if isLUT == nil || isLUT(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}
