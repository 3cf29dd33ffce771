// Package pixel applies a 3D LUT to packed RGB pixel buffers.
package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrGeometry is returned when a buffer does not match its description
	// or two buffers that must match do not.
	ErrGeometry = errors.New("pixel buffer geometry mismatch")

	// ErrUnsupportedDepth is returned for bit depths other than 8 and 16.
	ErrUnsupportedDepth = errors.New("unsupported bit depth")

	// ErrUnknownFormat is returned by LookupFormat for unknown names.
	ErrUnknownFormat = errors.New("unknown pixel format")
)

// Layout describes how the samples of one pixel are packed.
// Offsets and Step are counted in samples, not bytes.
type Layout struct {
	// R, G and B are the sample offsets of the colour channels.
	R, G, B int

	// A is the offset of the fourth sample (alpha or padding); it is only
	// meaningful when Step is 4.
	A int

	// Step is the number of samples per pixel, 3 or 4.
	Step int

	// Depth is the bit depth of a sample, 8 or 16.
	Depth int

	// Order is the byte order of 16-bit samples. Nil means native order.
	Order binary.ByteOrder
}

// HasFourth reports whether pixels carry a fourth (alpha or padding) sample.
func (l Layout) HasFourth() bool {
	return l.Step == 4
}

// BytesPerSample returns the size of one sample.
func (l Layout) BytesPerSample() int {
	return l.Depth / 8
}

// BytesPerPixel returns the size of one pixel.
func (l Layout) BytesPerPixel() int {
	return l.Step * l.BytesPerSample()
}

// MaxValue returns the largest sample value, 2^Depth - 1.
func (l Layout) MaxValue() uint32 {
	return uint32(1)<<l.Depth - 1
}

func (l Layout) byteOrder() binary.ByteOrder {
	if l.Order == nil {
		return binary.NativeEndian
	}
	return l.Order
}

// Validate checks that the layout is internally consistent.
func (l Layout) Validate() error {
	if l.Depth != 8 && l.Depth != 16 {
		return fmt.Errorf("%w: %d", ErrUnsupportedDepth, l.Depth)
	}
	if l.Step != 3 && l.Step != 4 {
		return fmt.Errorf("%w: %d samples per pixel (want 3 or 4)", ErrGeometry, l.Step)
	}
	offsets := []int{l.R, l.G, l.B}
	if l.HasFourth() {
		offsets = append(offsets, l.A)
	}
	var seen [4]bool
	for _, off := range offsets {
		if off < 0 || off >= l.Step {
			return fmt.Errorf("%w: channel offset %d outside a %d-sample pixel", ErrGeometry, off, l.Step)
		}
		if seen[off] {
			return fmt.Errorf("%w: channel offset %d used twice", ErrGeometry, off)
		}
		seen[off] = true
	}
	return nil
}

// Same reports whether two layouts pack pixels identically.
func (l Layout) Same(o Layout) bool {
	return l.R == o.R && l.G == o.G && l.B == o.B && l.Step == o.Step &&
		l.Depth == o.Depth && (!l.HasFourth() || l.A == o.A) &&
		(l.Depth == 8 || l.byteOrder() == o.byteOrder())
}

// Format is a named pixel layout.
type Format struct {
	Name     string
	HasAlpha bool
	Layout   Layout
}

var formats = map[string]Format{
	"rgb24":  {Name: "rgb24", Layout: Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 8}},
	"bgr24":  {Name: "bgr24", Layout: Layout{R: 2, G: 1, B: 0, Step: 3, Depth: 8}},
	"rgba":   {Name: "rgba", HasAlpha: true, Layout: Layout{R: 0, G: 1, B: 2, A: 3, Step: 4, Depth: 8}},
	"bgra":   {Name: "bgra", HasAlpha: true, Layout: Layout{R: 2, G: 1, B: 0, A: 3, Step: 4, Depth: 8}},
	"argb":   {Name: "argb", HasAlpha: true, Layout: Layout{R: 1, G: 2, B: 3, A: 0, Step: 4, Depth: 8}},
	"abgr":   {Name: "abgr", HasAlpha: true, Layout: Layout{R: 3, G: 2, B: 1, A: 0, Step: 4, Depth: 8}},
	"0rgb":   {Name: "0rgb", Layout: Layout{R: 1, G: 2, B: 3, A: 0, Step: 4, Depth: 8}},
	"0bgr":   {Name: "0bgr", Layout: Layout{R: 3, G: 2, B: 1, A: 0, Step: 4, Depth: 8}},
	"rgb0":   {Name: "rgb0", Layout: Layout{R: 0, G: 1, B: 2, A: 3, Step: 4, Depth: 8}},
	"bgr0":   {Name: "bgr0", Layout: Layout{R: 2, G: 1, B: 0, A: 3, Step: 4, Depth: 8}},
	"rgb48":  {Name: "rgb48", Layout: Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 16}},
	"bgr48":  {Name: "bgr48", Layout: Layout{R: 2, G: 1, B: 0, Step: 3, Depth: 16}},
	"rgba64": {Name: "rgba64", HasAlpha: true, Layout: Layout{R: 0, G: 1, B: 2, A: 3, Step: 4, Depth: 16}},
	"bgra64": {Name: "bgra64", HasAlpha: true, Layout: Layout{R: 2, G: 1, B: 0, A: 3, Step: 4, Depth: 16}},
}

// Formats returns the supported pixel formats sorted by name.
func Formats() []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupFormat returns the pixel format with the given name (case-insensitive).
// 16-bit formats use native byte order.
func LookupFormat(name string) (Format, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return Format{}, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return f, nil
}
