package lut

import "io"

// parseDat reads size^3 lines of "r g b" floats with no header.
func parseDat(r io.Reader, size int) (*Grid, error) {
	g, err := Allocate(size)
	if err != nil {
		return nil, &ParseError{Format: FormatDat, Err: err}
	}

	lr := newLineReader(r, FormatDat)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			for k := 0; k < size; k++ {
				line, err := lr.nextData()
				if err != nil {
					return nil, err
				}
				v, err := parseFloatTriplet(line)
				if err != nil {
					return nil, lr.fail(err)
				}
				g.set(i, j, k, RGB{R: v[0], G: v[1], B: v[2]})
			}
		}
	}
	return g, nil
}
