package lut

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// m3dHeader holds the header fields of an m3d file.
type m3dHeader struct {
	in, out int
	// columns[i] is the output channel (0=r, 1=g, 2=b) fed by table column i.
	columns [3]int
}

// parseM3D reads an m3d file: an "in"/"out" header, an optional
// "values x y z" column assignment and then the table itself.
func parseM3D(r io.Reader, logger hclog.Logger) (*Grid, error) {
	lr := newLineReader(r, FormatM3D)

	hdr, first, err := readM3DHeader(lr)
	if err != nil {
		return nil, err
	}

	size := 1
	for size*size*size < hdr.in {
		size++
	}
	logger.Debug("m3d header", "in", hdr.in, "out", hdr.out, "size", size, "columns", hdr.columns)

	if hdr.out < 2 {
		return nil, lr.fail(fmt.Errorf("%w: out must be at least 2, got %d", ErrMalformedLine, hdr.out))
	}
	if size < 2 {
		return nil, lr.fail(fmt.Errorf("%w: in %d", ErrEmptyResult, hdr.in))
	}
	g, err := Allocate(size)
	if err != nil {
		return nil, lr.fail(err)
	}
	scale := 1 / float32(hdr.out-1)

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			for k := 0; k < size; k++ {
				var line string
				if first != "" {
					line, first = first, ""
				} else if line, err = lr.nextData(); err != nil {
					return nil, err
				}

				v, err := parseFloatTriplet(line)
				if err != nil {
					return nil, lr.fail(err)
				}
				var out [3]float32
				for col, ch := range hdr.columns {
					out[ch] = v[col] * scale
				}
				g.set(i, j, k, RGB{R: out[0], G: out[1], B: out[2]})
			}
		}
	}
	return g, nil
}

// readM3DHeader consumes header lines. The header ends at a "values" line or
// at the first line that starts with a number; in the latter case that line
// is returned so the table reader can use it.
func readM3DHeader(lr *lineReader) (m3dHeader, string, error) {
	hdr := m3dHeader{in: -1, out: -1, columns: [3]int{0, 1, 2}}
	var first string

	for {
		line, ok, err := lr.scan()
		if err != nil {
			return hdr, "", err
		}
		if !ok {
			break
		}
		if skipLine(line) {
			continue
		}

		fields := strings.Fields(line)
		key := fields[0]
		switch {
		case key == "values":
			if err := parseM3DColumns(fields[1:], &hdr.columns); err != nil {
				return hdr, "", lr.fail(err)
			}
		case key == "in" || key == "out":
			n, err := parseM3DCount(key, fields[1:])
			if err != nil {
				return hdr, "", lr.fail(err)
			}
			if key == "in" {
				hdr.in = n
			} else {
				hdr.out = n
			}
			continue
		case isNumber(key):
			first = line
		default:
			// Unknown header keys are ignored.
			continue
		}
		break
	}

	if hdr.in == -1 || hdr.out == -1 {
		return hdr, "", lr.fail(fmt.Errorf("%w: in and out must be defined", ErrMissingHeader))
	}
	return hdr, first, nil
}

func parseM3DCount(key string, args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s without a value", ErrMalformedLine, key)
	}
	n, err := strconv.ParseInt(args[0], 0, 32)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrMalformedLine, key, args[0])
	}
	return int(n), nil
}

func parseM3DColumns(args []string, columns *[3]int) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: values needs 3 channels, got %d", ErrMalformedLine, len(args))
	}
	var seen [3]bool
	for i := range columns {
		var ch int
		switch args[i][0] {
		case 'r':
			ch = 0
		case 'g':
			ch = 1
		case 'b':
			ch = 2
		default:
			return fmt.Errorf("%w: unknown channel %q", ErrMalformedLine, args[i])
		}
		if seen[ch] {
			return fmt.Errorf("%w: channel %q assigned twice", ErrMalformedLine, args[i])
		}
		seen[ch] = true
		columns[i] = ch
	}
	return nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
