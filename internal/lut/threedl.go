package lut

import "io"

const (
	// threeDLSize is the only grid side the 3dl parser understands.
	threeDLSize = 17

	// threeDLScale is the implicit maximum code value of a 3dl table.
	threeDLScale = 16 * 16 * 16
)

// parse3DL reads a 17x17x17 table of integer triplets after one header line.
func parse3DL(r io.Reader) (*Grid, error) {
	g, err := Allocate(threeDLSize)
	if err != nil {
		return nil, &ParseError{Format: Format3DL, Err: err}
	}

	lr := newLineReader(r, Format3DL)
	if _, err := lr.next(); err != nil {
		return nil, err
	}

	for i := 0; i < threeDLSize; i++ {
		for j := 0; j < threeDLSize; j++ {
			for k := 0; k < threeDLSize; k++ {
				line, err := lr.nextData()
				if err != nil {
					return nil, err
				}
				v, err := parseIntTriplet(line)
				if err != nil {
					return nil, lr.fail(err)
				}
				g.set(i, j, k, RGB{
					R: float32(v[0]) / threeDLScale,
					G: float32(v[1]) / threeDLScale,
					B: float32(v[2]) / threeDLScale,
				})
			}
		}
	}
	return g, nil
}
