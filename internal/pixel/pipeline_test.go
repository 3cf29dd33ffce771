package pixel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/jmylchreest/lut3d/internal/lut"
)

func identityPipeline(t *testing.T, mode lut.Interpolation, opts ...Option) *Pipeline {
	t.Helper()
	g, err := lut.Identity(lut.DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(g, mode, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// invertGrid returns a grid mapping every colour to its complement.
func invertGrid(t *testing.T, n int) *lut.Grid {
	t.Helper()
	var sb bytes.Buffer
	c := 1 / float32(n-1)
	for r := 0; r < n; r++ {
		for g := 0; g < n; g++ {
			for b := 0; b < n; b++ {
				sb.WriteString(ftoa(1-float32(r)*c) + " " + ftoa(1-float32(g)*c) + " " + ftoa(1-float32(b)*c) + "\n")
			}
		}
	}
	grid, err := lut.Parse(lut.FormatDat, &sb, lut.WithDatSize(n))
	if err != nil {
		t.Fatal(err)
	}
	return grid
}

func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// randomBuffer returns a buffer of the given format filled with random bytes.
func randomBuffer(t *testing.T, f Format, width, height int, seed uint64) *Buffer {
	t.Helper()
	buf, err := NewBuffer(width, height, f.Layout)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(seed, seed+1))
	for i := range buf.Pix {
		buf.Pix[i] = byte(rng.UintN(256))
	}
	return buf
}

func sample(b *Buffer, x, y, off int) uint32 {
	i := y*b.Stride + (x*b.Layout.Step+off)*b.Layout.BytesPerSample()
	if b.Layout.Depth == 8 {
		return uint32(b.Pix[i])
	}
	return uint32(b.Layout.byteOrder().Uint16(b.Pix[i:]))
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// TestNew tests pipeline construction.
func TestNew(t *testing.T) {
	g, err := lut.Identity(2)
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(g, lut.Trilinear, WithWorkers(3))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Grid() != g || p.Interpolation() != lut.Trilinear || p.workers != 3 {
		t.Errorf("unexpected pipeline: %+v", p)
	}

	p, err = New(g, lut.Nearest, WithWorkers(0), WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}
	if p.workers < 1 {
		t.Errorf("Expected at least one worker, got %d", p.workers)
	}
	if p.logger == nil {
		t.Error("WithLogger(nil) cleared the logger")
	}

	if _, err := New(nil, lut.Nearest); !errors.Is(err, lut.ErrEmptyResult) {
		t.Errorf("Expected ErrEmptyResult for nil grid, got %v", err)
	}
	if _, err := New(g, lut.Interpolation(9)); err == nil {
		t.Error("Expected error for unknown interpolation")
	}
}

// TestApplyIdentityRoundTrip tests that the identity LUT preserves every
// colour sample to within one step, for every catalogue format.
func TestApplyIdentityRoundTrip(t *testing.T) {
	for _, mode := range []lut.Interpolation{lut.Trilinear, lut.Tetrahedral} {
		p := identityPipeline(t, mode)
		for _, f := range Formats() {
			t.Run(mode.String()+"/"+f.Name, func(t *testing.T) {
				src := randomBuffer(t, f, 37, 23, 1)
				dst, err := p.Apply(nil, src, false)
				if err != nil {
					t.Fatalf("Apply failed: %v", err)
				}
				l := f.Layout
				for y := 0; y < src.Height; y++ {
					for x := 0; x < src.Width; x++ {
						for _, off := range []int{l.R, l.G, l.B} {
							want, got := sample(src, x, y, off), sample(dst, x, y, off)
							if absDiff(want, got) > 1 {
								t.Fatalf("pixel (%d, %d) sample %d: got %d, want %d", x, y, off, got, want)
							}
						}
					}
				}
			})
		}
	}
}

// TestApplyFourthSample tests that alpha and padding samples are copied to a
// separate destination and left untouched in place.
func TestApplyFourthSample(t *testing.T) {
	p, err := New(invertGrid(t, 5), lut.Tetrahedral)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"rgba", "argb", "0bgr", "rgba64", "bgra64"} {
		f, err := LookupFormat(name)
		if err != nil {
			t.Fatal(err)
		}
		t.Run(name, func(t *testing.T) {
			src := randomBuffer(t, f, 9, 7, 2)
			orig := bytes.Clone(src.Pix)

			dst, err := NewBuffer(src.Width, src.Height, f.Layout)
			if err != nil {
				t.Fatal(err)
			}
			for i := range dst.Pix {
				dst.Pix[i] = 0x55
			}
			out, err := p.Apply(dst, src, false)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if out != dst {
				t.Error("Apply did not return the destination buffer")
			}
			if !bytes.Equal(src.Pix, orig) {
				t.Error("source modified by an out-of-place Apply")
			}

			a := f.Layout.A
			for y := 0; y < src.Height; y++ {
				for x := 0; x < src.Width; x++ {
					if got, want := sample(dst, x, y, a), sample(src, x, y, a); got != want {
						t.Fatalf("pixel (%d, %d): fourth sample %d, want %d", x, y, got, want)
					}
				}
			}

			out, err = p.Apply(nil, src, true)
			if err != nil {
				t.Fatalf("in-place Apply failed: %v", err)
			}
			if out != src {
				t.Error("in-place Apply did not return the source buffer")
			}
			for y := 0; y < src.Height; y++ {
				for x := 0; x < src.Width; x++ {
					i := y*src.Stride + x*f.Layout.BytesPerPixel() + a*f.Layout.BytesPerSample()
					if !bytes.Equal(src.Pix[i:i+f.Layout.BytesPerSample()], orig[i:i+f.Layout.BytesPerSample()]) {
						t.Fatalf("pixel (%d, %d): fourth sample changed in place", x, y)
					}
				}
			}
		})
	}
}

// TestApplyInvert tests a non-trivial LUT at both depths.
func TestApplyInvert(t *testing.T) {
	p, err := New(invertGrid(t, 17), lut.Trilinear)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"bgr24", "rgb48"} {
		f, _ := LookupFormat(name)
		t.Run(name, func(t *testing.T) {
			src := randomBuffer(t, f, 16, 4, 3)
			dst, err := p.Apply(nil, src, false)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			maxv := f.Layout.MaxValue()
			l := f.Layout
			for y := 0; y < src.Height; y++ {
				for x := 0; x < src.Width; x++ {
					for _, off := range []int{l.R, l.G, l.B} {
						want := maxv - sample(src, x, y, off)
						if got := sample(dst, x, y, off); absDiff(got, want) > 1 {
							t.Fatalf("pixel (%d, %d) sample %d: got %d, want %d", x, y, off, got, want)
						}
					}
				}
			}
		})
	}
}

// TestApplyByteOrder tests that 16-bit samples honour the layout byte order.
func TestApplyByteOrder(t *testing.T) {
	p, err := New(invertGrid(t, 2), lut.Nearest)
	if err != nil {
		t.Fatal(err)
	}
	layout := Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 16, Order: binary.BigEndian}
	src, err := NewBuffer(1, 1, layout)
	if err != nil {
		t.Fatal(err)
	}
	// r = 0, g = 0xffff, b = 0x0100
	copy(src.Pix, []byte{0x00, 0x00, 0xff, 0xff, 0x01, 0x00})

	dst, err := p.Apply(nil, src, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := []byte{0xff, 0xff, 0x00, 0x00, 0xff, 0xff}
	if !bytes.Equal(dst.Pix, want) {
		t.Errorf("got % x, want % x", dst.Pix, want)
	}
}

// TestApplyStride tests that row padding is neither read nor written.
func TestApplyStride(t *testing.T) {
	f, _ := LookupFormat("rgb24")
	width, height, stride := 5, 40, 5*3+7
	src := &Buffer{Pix: make([]byte, stride*height), Width: width, Height: height, Stride: stride, Layout: f.Layout}
	rng := rand.New(rand.NewPCG(4, 4))
	for i := range src.Pix {
		src.Pix[i] = byte(rng.UintN(256))
	}
	dst := &Buffer{Pix: bytes.Repeat([]byte{0xee}, stride*height), Width: width, Height: height, Stride: stride, Layout: f.Layout}

	p := identityPipeline(t, lut.Tetrahedral, WithWorkers(4))
	if _, err := p.Apply(dst, src, false); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for y := 0; y < height; y++ {
		for i := width * 3; i < stride; i++ {
			if b := dst.Pix[y*stride+i]; b != 0xee {
				t.Fatalf("row %d padding byte %d overwritten: %#x", y, i, b)
			}
		}
		for x := 0; x < width; x++ {
			for off := 0; off < 3; off++ {
				if absDiff(sample(src, x, y, off), sample(dst, x, y, off)) > 1 {
					t.Fatalf("pixel (%d, %d) changed", x, y)
				}
			}
		}
	}
}

// TestApplyWorkersAgree tests that the output does not depend on the worker count.
func TestApplyWorkersAgree(t *testing.T) {
	f, _ := LookupFormat("bgra")
	src := randomBuffer(t, f, 64, 301, 5)
	g := invertGrid(t, 9)

	var results [][]byte
	for _, workers := range []int{1, 3, 16} {
		p, err := New(g, lut.Tetrahedral, WithWorkers(workers))
		if err != nil {
			t.Fatal(err)
		}
		dst, err := p.Apply(nil, src, false)
		if err != nil {
			t.Fatalf("Apply with %d workers failed: %v", workers, err)
		}
		results = append(results, dst.Pix)
	}
	for i := 1; i < len(results); i++ {
		if !bytes.Equal(results[0], results[i]) {
			t.Errorf("result %d differs from single-worker result", i)
		}
	}
}

// TestApplyErrors tests buffer validation failures.
func TestApplyErrors(t *testing.T) {
	p := identityPipeline(t, lut.Nearest)
	rgb, _ := LookupFormat("rgb24")
	bgr, _ := LookupFormat("bgr24")
	rgba, _ := LookupFormat("rgba")

	src, _ := NewBuffer(4, 4, rgb.Layout)
	wide, _ := NewBuffer(5, 4, rgb.Layout)
	swapped, _ := NewBuffer(4, 4, bgr.Layout)
	withAlpha, _ := NewBuffer(4, 4, rgba.Layout)

	tests := []struct {
		name string
		dst  *Buffer
		src  *Buffer
		want error
	}{
		{name: "nil source", src: nil, want: ErrGeometry},
		{name: "width mismatch", dst: wide, src: src, want: ErrGeometry},
		{name: "channel order mismatch", dst: swapped, src: src, want: ErrGeometry},
		{name: "sample count mismatch", dst: withAlpha, src: src, want: ErrGeometry},
		{name: "short source", src: &Buffer{Pix: make([]byte, 10), Width: 4, Height: 4, Stride: 12, Layout: rgb.Layout}, want: ErrGeometry},
		{name: "unsupported depth", src: &Buffer{Width: 0, Height: 0, Layout: Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 12}}, want: ErrUnsupportedDepth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Apply(tt.dst, tt.src, false); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	// In place ignores dst entirely.
	if out, err := p.Apply(wide, src, true); err != nil || out != src {
		t.Errorf("in-place Apply = %v, %v", out, err)
	}
}

// TestApplyEmpty tests that empty images are accepted.
func TestApplyEmpty(t *testing.T) {
	p := identityPipeline(t, lut.Tetrahedral)
	f, _ := LookupFormat("rgba64")
	src, err := NewBuffer(0, 0, f.Layout)
	if err != nil {
		t.Fatal(err)
	}
	dst, err := p.Apply(nil, src, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if dst.Width != 0 || dst.Height != 0 {
		t.Errorf("unexpected geometry %dx%d", dst.Width, dst.Height)
	}
}

// TestQuantize tests conversion back to integer samples.
func TestQuantize(t *testing.T) {
	tests := []struct {
		v    float32
		maxv float32
		want uint32
	}{
		{0, 255, 0},
		{1, 255, 255},
		{0.5, 255, 128},
		{0.499, 255, 127},
		{-0.2, 255, 0},
		{1.7, 255, 255},
		{float32(math.NaN()), 255, 0},
		{float32(math.Inf(1)), 65535, 65535},
		{float32(math.Inf(-1)), 65535, 0},
		{0.5, 65535, 32768},
	}
	for _, tt := range tests {
		if got := quantize(tt.v, tt.maxv); got != tt.want {
			t.Errorf("quantize(%v, %v) = %d, want %d", tt.v, tt.maxv, got, tt.want)
		}
	}
}
