package lut

import (
	"fmt"
	"strings"
)

// Interpolation selects how a grid is sampled between its points.
type Interpolation int

const (
	// Nearest uses the value of the nearest defined point.
	Nearest Interpolation = iota

	// Trilinear interpolates the 8 vertices of the enclosing cube.
	Trilinear

	// Tetrahedral interpolates the 4 vertices of the enclosing tetrahedron.
	Tetrahedral
)

// DefaultInterpolation is used when no interpolation is configured.
const DefaultInterpolation = Tetrahedral

var interpolationNames = map[Interpolation]string{
	Nearest:     "nearest",
	Trilinear:   "trilinear",
	Tetrahedral: "tetrahedral",
}

// Interpolations returns every supported interpolation mode.
func Interpolations() []Interpolation {
	return []Interpolation{Nearest, Trilinear, Tetrahedral}
}

func (i Interpolation) String() string {
	if name, ok := interpolationNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation parses an interpolation name (case-insensitive).
func ParseInterpolation(s string) (Interpolation, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for mode, n := range interpolationNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation: %s (valid: nearest, trilinear, tetrahedral)", s)
}

// Sampler samples a grid at a grid-space coordinate, each component in
// [0, N-1], and returns a colour-space value.
type Sampler interface {
	Sample(g *Grid, s RGB) RGB
}

// NewSampler returns the sampler implementing mode.
func NewSampler(mode Interpolation) (Sampler, error) {
	switch mode {
	case Nearest:
		return NearestSampler{}, nil
	case Trilinear:
		return TrilinearSampler{}, nil
	case Tetrahedral:
		return TetrahedralSampler{}, nil
	default:
		return nil, fmt.Errorf("unknown interpolation: %s", mode)
	}
}

// Scale returns the factor mapping an integer sample of the given bit depth
// into grid-index space for a grid of side n.
func Scale(bits, n int) float32 {
	return float32(n-1) / float32(uint32(1)<<bits-1)
}

// NearestSampler returns the nearest defined point. Halves round up.
type NearestSampler struct{}

// Sample implements Sampler.
func (NearestSampler) Sample(g *Grid, s RGB) RGB {
	top := float32(g.size - 1)
	return g.At(near(s.R, top), near(s.G, top), near(s.B, top))
}

// TrilinearSampler blends the 8 vertices of a cube with 7 lerps.
//
// See https://en.wikipedia.org/wiki/Trilinear_interpolation
type TrilinearSampler struct{}

// Sample implements Sampler.
func (TrilinearSampler) Sample(g *Grid, s RGB) RGB {
	c := g.cube(s)
	d := c.d

	c00 := lerp(c.c000, c.c100, d.R)
	c10 := lerp(c.c010, c.c110, d.R)
	c01 := lerp(c.c001, c.c101, d.R)
	c11 := lerp(c.c011, c.c111, d.R)
	c0 := lerp(c00, c10, d.G)
	c1 := lerp(c01, c11, d.G)
	return lerp(c0, c1, d.B)
}

// TetrahedralSampler splits the cube into six tetrahedra chosen by the order
// of the fractional offsets and weights the four vertices of the one that
// contains the point.
//
// Based on the Truelight Software Library paper,
// http://www.filmlight.ltd.uk/pdf/whitepapers/FL-TL-TN-0057-SoftwareLib.pdf
type TetrahedralSampler struct{}

// Sample implements Sampler.
func (TetrahedralSampler) Sample(g *Grid, s RGB) RGB {
	c := g.cube(s)
	d := c.d

	if d.R > d.G {
		switch {
		case d.G > d.B: // r > g > b
			return weigh(c.c000, 1-d.R, c.c100, d.R-d.G, c.c110, d.G-d.B, c.c111, d.B)
		case d.R > d.B: // r > b >= g
			return weigh(c.c000, 1-d.R, c.c100, d.R-d.B, c.c101, d.B-d.G, c.c111, d.G)
		default: // b >= r > g
			return weigh(c.c000, 1-d.B, c.c001, d.B-d.R, c.c101, d.R-d.G, c.c111, d.G)
		}
	}
	switch {
	case d.B > d.G: // b > g >= r
		return weigh(c.c000, 1-d.B, c.c001, d.B-d.G, c.c011, d.G-d.R, c.c111, d.R)
	case d.B > d.R: // g >= b > r
		return weigh(c.c000, 1-d.G, c.c010, d.G-d.B, c.c011, d.B-d.R, c.c111, d.R)
	default: // g >= r >= b
		return weigh(c.c000, 1-d.G, c.c010, d.G-d.R, c.c110, d.R-d.B, c.c111, d.B)
	}
}

// unitCube is the 8 grid points around a coordinate plus the fractional
// offset of the coordinate from c000.
type unitCube struct {
	d                                              RGB
	c000, c001, c010, c011, c100, c101, c110, c111 RGB
}

func (g *Grid) cube(s RGB) unitCube {
	top := g.size - 1
	r0, r1, dr := split(s.R, top)
	g0, g1, dg := split(s.G, top)
	b0, b1, db := split(s.B, top)
	return unitCube{
		d:    RGB{R: dr, G: dg, B: db},
		c000: g.At(r0, g0, b0),
		c001: g.At(r0, g0, b1),
		c010: g.At(r0, g1, b0),
		c011: g.At(r0, g1, b1),
		c100: g.At(r1, g0, b0),
		c101: g.At(r1, g0, b1),
		c110: g.At(r1, g1, b0),
		c111: g.At(r1, g1, b1),
	}
}

// split clamps x to [0, top] and returns the lower index, the upper index
// (clamped to top) and the fractional offset from the lower index.
func split(x float32, top int) (lo, hi int, frac float32) {
	x = clampf(x, 0, float32(top))
	lo = int(x)
	frac = x - float32(lo)
	hi = lo + 1
	if hi > top {
		hi = top
	}
	return lo, hi, frac
}

func near(x, top float32) int {
	return int(clampf(x, 0, top) + .5)
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func lerpf(v0, v1, f float32) float32 {
	return v0 + (v1-v0)*f
}

func lerp(v0, v1 RGB, f float32) RGB {
	return RGB{
		R: lerpf(v0.R, v1.R, f),
		G: lerpf(v0.G, v1.G, f),
		B: lerpf(v0.B, v1.B, f),
	}
}

func weigh(a RGB, wa float32, b RGB, wb float32, c RGB, wc float32, d RGB, wd float32) RGB {
	return RGB{
		R: wa*a.R + wb*b.R + wc*c.R + wd*d.R,
		G: wa*a.G + wb*b.G + wc*c.G + wd*d.G,
		B: wa*a.B + wb*b.B + wc*c.B + wd*d.B,
	}
}
