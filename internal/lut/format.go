package lut

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/lut3d/internal/compression"
)

// Format identifies a LUT file format.
type Format string

const (
	// FormatDat is a headerless table of float triplets with an externally known size.
	FormatDat Format = "dat"

	// FormatCube is the size-declared cube format with optional domain scaling.
	FormatCube Format = "cube"

	// Format3DL is a fixed 17x17x17 table of integer code values.
	Format3DL Format = "3dl"

	// FormatM3D is a header/table format with an optional column remap.
	FormatM3D Format = "m3d"
)

// DatSize is the grid side assumed for FormatDat files.
const DatSize = 33

// Formats returns every supported LUT format.
func Formats() []Format {
	return []Format{FormatDat, FormatCube, Format3DL, FormatM3D}
}

// Description returns a short human-readable description of the format.
func (f Format) Description() string {
	switch f {
	case FormatDat:
		return "float triplet table, 33x33x33"
	case FormatCube:
		return "cube with LUT_3D_SIZE and DOMAIN_MIN/DOMAIN_MAX"
	case Format3DL:
		return "17x17x17 integer table"
	case FormatM3D:
		return "in/out header table with values remap"
	default:
		return "unknown"
	}
}

// FormatFromPath selects a format from a file extension (case-insensitive).
// Compression suffixes are ignored, so "grade.cube.xz" resolves to FormatCube.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(compression.StripSuffix(path)))
	if ext == "" {
		return "", fmt.Errorf("%w: unable to guess the format from %q", ErrUnrecognizedFormat, path)
	}
	f := Format(strings.TrimPrefix(ext, "."))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q file type", ErrUnrecognizedFormat, ext)
}

// Option configures a parse call.
type Option func(*parseOptions)

type parseOptions struct {
	logger  hclog.Logger
	datSize int
}

// WithLogger routes parser debug output to logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *parseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDatSize overrides the grid side assumed for FormatDat.
func WithDatSize(n int) Option {
	return func(o *parseOptions) {
		o.datSize = n
	}
}

// Parse reads a LUT of the given format from r. On any error no grid is returned.
// The caller owns r and is responsible for closing it.
func Parse(format Format, r io.Reader, opts ...Option) (*Grid, error) {
	o := parseOptions{
		logger:  hclog.NewNullLogger(),
		datSize: DatSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		g   *Grid
		err error
	)
	switch format {
	case FormatDat:
		g, err = parseDat(r, o.datSize)
	case FormatCube:
		g, err = parseCube(r, o.logger)
	case Format3DL:
		g, err = parse3DL(r)
	case FormatM3D:
		g, err = parseM3D(r, o.logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if g == nil || g.Size() == 0 {
		return nil, &ParseError{Format: format, Err: ErrEmptyResult}
	}

	o.logger.Debug("parsed 3D LUT", "format", format, "size", g.Size())
	return g, nil
}

// ParseFile opens path, transparently decompressing .gz, .bz2 and .xz files,
// and parses it with the format implied by its extension.
func ParseFile(path string, opts ...Option) (*Grid, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	rc, err := compression.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open LUT file: %w", err)
	}
	defer rc.Close()

	g, err := Parse(format, rc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
