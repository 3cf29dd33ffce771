package pixel

import (
	"encoding/binary"
	"errors"
	"sort"
	"testing"
)

// TestFormats tests the pixel format catalogue.
func TestFormats(t *testing.T) {
	all := Formats()
	if len(all) != 14 {
		t.Errorf("Expected 14 formats, got %d", len(all))
	}
	if !sort.SliceIsSorted(all, func(i, j int) bool { return all[i].Name < all[j].Name }) {
		t.Error("Formats() is not sorted by name")
	}
	for _, f := range all {
		if err := f.Layout.Validate(); err != nil {
			t.Errorf("format %s has an invalid layout: %v", f.Name, err)
		}
		if f.HasAlpha && !f.Layout.HasFourth() {
			t.Errorf("format %s has alpha but only %d samples", f.Name, f.Layout.Step)
		}
	}
}

// TestLookupFormat tests format lookup by name.
func TestLookupFormat(t *testing.T) {
	tests := []struct {
		name      string
		wantBytes int
		wantR     int
		wantErr   bool
	}{
		{name: "rgb24", wantBytes: 3, wantR: 0},
		{name: "BGRA", wantBytes: 4, wantR: 2},
		{name: "abgr", wantBytes: 4, wantR: 3},
		{name: "0rgb", wantBytes: 4, wantR: 1},
		{name: "rgb48", wantBytes: 6, wantR: 0},
		{name: "bgra64", wantBytes: 8, wantR: 2},
		{name: "yuv420p", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := LookupFormat(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("Expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LookupFormat(%q) failed: %v", tt.name, err)
			}
			if got := f.Layout.BytesPerPixel(); got != tt.wantBytes {
				t.Errorf("Expected %d bytes per pixel, got %d", tt.wantBytes, got)
			}
			if f.Layout.R != tt.wantR {
				t.Errorf("Expected red at %d, got %d", tt.wantR, f.Layout.R)
			}
		})
	}
}

// TestLayoutValidate tests layout consistency checks.
func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		want   error
	}{
		{name: "rgb", layout: Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 8}},
		{name: "depth 10", layout: Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 10}, want: ErrUnsupportedDepth},
		{name: "depth 32", layout: Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 32}, want: ErrUnsupportedDepth},
		{name: "step 2", layout: Layout{R: 0, G: 1, B: 0, Step: 2, Depth: 8}, want: ErrGeometry},
		{name: "offset outside pixel", layout: Layout{R: 0, G: 1, B: 3, Step: 3, Depth: 8}, want: ErrGeometry},
		{name: "shared offset", layout: Layout{R: 0, G: 0, B: 2, Step: 3, Depth: 8}, want: ErrGeometry},
		{name: "alpha clash", layout: Layout{R: 0, G: 1, B: 2, A: 2, Step: 4, Depth: 16}, want: ErrGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestLayoutSame tests layout comparison.
func TestLayoutSame(t *testing.T) {
	rgb48 := Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 16}
	native := rgb48
	native.Order = binary.NativeEndian
	big := rgb48
	big.Order = binary.BigEndian
	little := rgb48
	little.Order = binary.LittleEndian

	if !rgb48.Same(native) {
		t.Error("nil order should match native order")
	}
	if big.Same(little) {
		t.Error("big and little endian layouts should differ")
	}

	rgb0 := Layout{R: 0, G: 1, B: 2, A: 3, Step: 4, Depth: 8}
	rgb := Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 8}
	if rgb0.Same(rgb) {
		t.Error("3 and 4 sample layouts should differ")
	}
	bgr := Layout{R: 2, G: 1, B: 0, Step: 3, Depth: 8}
	if rgb.Same(bgr) {
		t.Error("rgb and bgr should differ")
	}
	rgbBig := rgb
	rgbBig.Order = binary.BigEndian
	if !rgb.Same(rgbBig) {
		t.Error("byte order should not matter at 8 bits")
	}
}

// TestBufferValidate tests buffer geometry checks.
func TestBufferValidate(t *testing.T) {
	layout := Layout{R: 0, G: 1, B: 2, Step: 3, Depth: 8}
	tests := []struct {
		name string
		buf  Buffer
		ok   bool
	}{
		{name: "packed", buf: Buffer{Pix: make([]byte, 12), Width: 2, Height: 2, Stride: 6, Layout: layout}, ok: true},
		{name: "padded", buf: Buffer{Pix: make([]byte, 14), Width: 2, Height: 2, Stride: 8, Layout: layout}, ok: true},
		{name: "empty", buf: Buffer{Width: 0, Height: 0, Layout: layout}, ok: true},
		{name: "short stride", buf: Buffer{Pix: make([]byte, 12), Width: 2, Height: 2, Stride: 5, Layout: layout}},
		{name: "short pix", buf: Buffer{Pix: make([]byte, 11), Width: 2, Height: 2, Stride: 6, Layout: layout}},
		{name: "negative", buf: Buffer{Width: -1, Height: 2, Layout: layout}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrGeometry) {
				t.Errorf("Expected ErrGeometry, got %v", err)
			}
		})
	}
}
