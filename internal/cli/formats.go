package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/lut3d/internal/compression"
	imageutil "github.com/jmylchreest/lut3d/internal/image"
	"github.com/jmylchreest/lut3d/internal/lut"
	"github.com/jmylchreest/lut3d/internal/pixel"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported LUT, pixel and image formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd, "", renderFormats())
		},
	}
}

func renderFormats() string {
	var sb strings.Builder

	sb.WriteString("LUT formats (compression: " + strings.Join(compression.Suffixes(), ", ") + ")\n\n")
	luts := NewTable([]string{"Extension", "Description"})
	luts.SetColumnMaxWidth(1, 60)
	for _, f := range lut.Formats() {
		luts.AddRow("."+string(f), f.Description())
	}
	sb.WriteString(luts.Render())

	sb.WriteString("\nPixel formats\n\n")
	pix := NewTable([]string{"Name", "Bits", "Bytes/pixel", "Alpha"})
	pix.SetAlignRight(1)
	pix.SetAlignRight(2)
	for _, f := range pixel.Formats() {
		alpha := "no"
		if f.HasAlpha {
			alpha = "yes"
		}
		pix.AddRow(f.Name, strconv.Itoa(f.Layout.Depth), strconv.Itoa(f.Layout.BytesPerPixel()), alpha)
	}
	sb.WriteString(pix.Render())

	sb.WriteString("\nImage files: " + strings.Join(imageutil.SupportedImageExtensions(), " ") + "\n")

	modes := make([]string, 0, 3)
	for _, m := range lut.Interpolations() {
		modes = append(modes, m.String())
	}
	sb.WriteString("Interpolation: " + strings.Join(modes, ", ") + " (default " + lut.DefaultInterpolation.String() + ")\n")
	return sb.String()
}
