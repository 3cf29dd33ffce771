// Package colour renders before/after colour swatches of a LUT for terminals.
package colour

import (
	"fmt"
	"image/color"
	"strings"
)

// ANSI escape codes for 24-bit terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 4
)

// Swatch returns a solid block of width cells in colour c.
func Swatch(c color.NRGBA, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return background(c) + strings.Repeat(" ", width) + ansiReset
}

// SwatchWithText returns a block of colour c with text centred on it.
// Black or white text is chosen, whichever contrasts more.
func SwatchWithText(c color.NRGBA, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	fg := color.NRGBA{A: 255}
	if ContrastRatio(c, fg) < ContrastRatio(c, color.White) {
		fg = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}

	display := text
	if len(text) > width {
		display = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		display = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}
	return background(c) + foreground(fg) + display + ansiReset
}

// Hex returns c as #rrggbb.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func background(c color.NRGBA) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
}

func foreground(c color.NRGBA) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, c.R, c.G, c.B, ansiSuffix)
}
