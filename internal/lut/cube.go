package lut

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
)

const (
	cubeSizeKeyword   = "LUT_3D_SIZE"
	cubeDomainKeyword = "DOMAIN_"
)

// parseCube reads a cube file. Everything before the first LUT_3D_SIZE line
// is ignored; DOMAIN_MIN and DOMAIN_MAX lines may appear anywhere after it and
// rescale every triplet read afterwards by (max - min).
func parseCube(r io.Reader, logger hclog.Logger) (*Grid, error) {
	lr := newLineReader(r, FormatCube)

	for {
		line, ok, err := lr.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, lr.fail(fmt.Errorf("%w: no %s declaration", ErrEmptyResult, cubeSizeKeyword))
		}
		if !strings.HasPrefix(line, cubeSizeKeyword+" ") {
			continue
		}

		size, err := parseCubeSize(line)
		if err != nil {
			return nil, lr.fail(err)
		}
		logger.Debug("cube size declared", "size", size, "line", lr.line)
		return readCubeTable(lr, size, logger)
	}
}

func parseCubeSize(line string) (int, error) {
	fields := strings.Fields(strings.TrimPrefix(line, cubeSizeKeyword))
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: %s without a value", ErrMalformedLine, cubeSizeKeyword)
	}
	size, err := strconv.ParseInt(fields[0], 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrMalformedLine, cubeSizeKeyword, fields[0])
	}
	if size > MaxSize {
		return 0, fmt.Errorf("%w: %d (maximum: %d)", ErrSizeTooLarge, size, MaxSize)
	}
	if size < 2 {
		return 0, fmt.Errorf("%w: %s %d", ErrEmptyResult, cubeSizeKeyword, size)
	}
	return int(size), nil
}

func readCubeTable(lr *lineReader, size int, logger hclog.Logger) (*Grid, error) {
	g, err := Allocate(size)
	if err != nil {
		return nil, lr.fail(err)
	}

	domainMin := [3]float32{0, 0, 0}
	domainMax := [3]float32{1, 1, 1}

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			for k := 0; k < size; k++ {
				var line string
				for {
					line, err = lr.next()
					if err != nil {
						return nil, err
					}
					if strings.HasPrefix(line, cubeDomainKeyword) {
						if err := parseDomain(line, &domainMin, &domainMax); err != nil {
							return nil, lr.fail(err)
						}
						logger.Debug("cube domain updated",
							"min", domainMin, "max", domainMax, "line", lr.line)
						continue
					}
					if !skipLine(line) {
						break
					}
				}

				v, err := parseFloatTriplet(line)
				if err != nil {
					return nil, lr.fail(err)
				}
				g.set(i, j, k, RGB{
					R: v[0] * (domainMax[0] - domainMin[0]),
					G: v[1] * (domainMax[1] - domainMin[1]),
					B: v[2] * (domainMax[2] - domainMin[2]),
				})
			}
		}
	}
	return g, nil
}

// parseDomain applies a DOMAIN_MIN or DOMAIN_MAX line to min or max.
func parseDomain(line string, domainMin, domainMax *[3]float32) error {
	rest := strings.TrimPrefix(line, cubeDomainKeyword)
	var dst *[3]float32
	switch {
	case strings.HasPrefix(rest, "MIN "):
		dst = domainMin
	case strings.HasPrefix(rest, "MAX "):
		dst = domainMax
	default:
		return fmt.Errorf("%w: unknown domain keyword in %q", ErrMalformedLine, line)
	}

	v, err := parseFloatTriplet(rest[4:])
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
