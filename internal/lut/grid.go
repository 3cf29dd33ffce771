// Package lut provides 3D colour lookup tables: grid storage, file format
// parsers and the interpolation strategies used to sample them.
package lut

import "fmt"

const (
	// MaxSize is the largest grid side accepted by any parser.
	MaxSize = 36

	// DefaultSize is the side of the identity grid used when no LUT file is supplied.
	DefaultSize = 32
)

// RGB is a colour triplet. Depending on context the components are either
// colour-space values (nominally 0..1) or grid-index coordinates (0..N-1).
type RGB struct {
	R, G, B float32
}

// Grid is a cubic 3D LUT. The value stored at [r][g][b] is the output colour
// for that input combination.
//
// A Grid is populated once by a parser or Identity and is read-only
// afterwards, so any number of goroutines may sample it concurrently.
type Grid struct {
	size  int
	cells []RGB
}

// Allocate returns a zero-initialised grid of side n.
func Allocate(n int) (*Grid, error) {
	if n > MaxSize {
		return nil, fmt.Errorf("%w: %d (maximum: %d)", ErrSizeTooLarge, n, MaxSize)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: grid side %d", ErrEmptyResult, n)
	}
	return &Grid{
		size:  n,
		cells: make([]RGB, n*n*n),
	}, nil
}

// Identity returns a grid of side n that maps every colour to itself.
func Identity(n int) (*Grid, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: identity grid needs at least 2 points per axis, got %d", ErrEmptyResult, n)
	}
	g, err := Allocate(n)
	if err != nil {
		return nil, err
	}
	c := 1 / float32(n-1)
	for r := 0; r < n; r++ {
		for gr := 0; gr < n; gr++ {
			for b := 0; b < n; b++ {
				g.set(r, gr, b, RGB{R: float32(r) * c, G: float32(gr) * c, B: float32(b) * c})
			}
		}
	}
	return g, nil
}

// Size returns the side length of the grid.
func (g *Grid) Size() int {
	return g.size
}

// At returns the cell at the given grid indices.
func (g *Grid) At(r, gr, b int) RGB {
	return g.cells[g.index(r, gr, b)]
}

func (g *Grid) set(r, gr, b int, v RGB) {
	g.cells[g.index(r, gr, b)] = v
}

func (g *Grid) index(r, gr, b int) int {
	return (r*g.size+gr)*g.size + b
}

// Cells returns a copy of the grid contents in r-outer, b-inner order.
func (g *Grid) Cells() []RGB {
	out := make([]RGB, len(g.cells))
	copy(out, g.cells)
	return out
}
