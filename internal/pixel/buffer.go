package pixel

import "fmt"

// Buffer is a packed pixel image. Stride is the distance in bytes between
// the starts of consecutive rows and may exceed Width*BytesPerPixel.
type Buffer struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
	Layout Layout
}

// NewBuffer allocates a tightly packed buffer.
func NewBuffer(width, height int, layout Layout) (*Buffer, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrGeometry, width, height)
	}
	stride := width * layout.BytesPerPixel()
	return &Buffer{
		Pix:    make([]byte, stride*height),
		Width:  width,
		Height: height,
		Stride: stride,
		Layout: layout,
	}, nil
}

// Validate checks that Pix is large enough for the described geometry.
func (b *Buffer) Validate() error {
	if err := b.Layout.Validate(); err != nil {
		return err
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrGeometry, b.Width, b.Height)
	}
	rowBytes := b.Width * b.Layout.BytesPerPixel()
	if b.Stride < rowBytes {
		return fmt.Errorf("%w: stride %d shorter than a %d-byte row", ErrGeometry, b.Stride, rowBytes)
	}
	if b.Height > 0 {
		need := (b.Height-1)*b.Stride + rowBytes
		if len(b.Pix) < need {
			return fmt.Errorf("%w: %d bytes for %dx%d (need %d)", ErrGeometry, len(b.Pix), b.Width, b.Height, need)
		}
	}
	return nil
}

// row returns the bytes of row y that hold pixels.
func (b *Buffer) row(y int) []byte {
	start := y * b.Stride
	return b.Pix[start : start+b.Width*b.Layout.BytesPerPixel()]
}
