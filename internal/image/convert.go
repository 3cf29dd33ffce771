package image

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/lut3d/internal/pixel"
)

var (
	// nrgbaLayout matches image.NRGBA.Pix.
	nrgbaLayout = pixel.Layout{R: 0, G: 1, B: 2, A: 3, Step: 4, Depth: 8}

	// nrgba64Layout matches image.NRGBA64.Pix, which stores big-endian samples.
	nrgba64Layout = pixel.Layout{R: 0, G: 1, B: 2, A: 3, Step: 4, Depth: 16, Order: binary.BigEndian}
)

// Is16Bit reports whether img carries more than 8 bits per channel.
func Is16Bit(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		return true
	}
	switch img.ColorModel() {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model:
		return true
	}
	return false
}

// ToBuffer converts img into a non-premultiplied RGBA buffer, 16-bit when
// the source has more than 8 bits per channel. The buffer never aliases
// img's pixels.
func ToBuffer(img image.Image) (*pixel.Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	b := img.Bounds()
	rect := image.Rect(0, 0, b.Dx(), b.Dy())

	if Is16Bit(img) {
		dst := image.NewNRGBA64(rect)
		draw.Draw(dst, rect, img, b.Min, draw.Src)
		return &pixel.Buffer{
			Pix:    dst.Pix,
			Width:  rect.Dx(),
			Height: rect.Dy(),
			Stride: dst.Stride,
			Layout: nrgba64Layout,
		}, nil
	}

	dst := image.NewNRGBA(rect)
	draw.Draw(dst, rect, img, b.Min, draw.Src)
	return &pixel.Buffer{
		Pix:    dst.Pix,
		Width:  rect.Dx(),
		Height: rect.Dy(),
		Stride: dst.Stride,
		Layout: nrgbaLayout,
	}, nil
}

// FromBuffer wraps a buffer produced by ToBuffer (or with the same layout)
// as an image without copying.
func FromBuffer(buf *pixel.Buffer) (image.Image, error) {
	rect := image.Rect(0, 0, buf.Width, buf.Height)
	switch {
	case buf.Layout.Same(nrgbaLayout):
		return &image.NRGBA{Pix: buf.Pix, Stride: buf.Stride, Rect: rect}, nil
	case buf.Layout.Same(nrgba64Layout):
		return &image.NRGBA64{Pix: buf.Pix, Stride: buf.Stride, Rect: rect}, nil
	default:
		return nil, fmt.Errorf("%w: buffer layout is not RGBA", pixel.ErrGeometry)
	}
}
