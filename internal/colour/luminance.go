package colour

import (
	"image/color"
	"math"
)

// Luminance returns the WCAG 2.0 relative luminance of c, 0 (black) to 1 (white).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef
func Luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.2126*linearize(float64(r)/0xffff) +
		0.7152*linearize(float64(g)/0xffff) +
		0.0722*linearize(float64(b)/0xffff)
}

func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG 2.0 contrast ratio of two colours, 1 to 21.
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef
func ContrastRatio(c1, c2 color.Color) float64 {
	l1, l2 := Luminance(c1), Luminance(c2)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}
