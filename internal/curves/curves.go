// Package curves plots the response of a 3D LUT along the neutral axis.
package curves

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jmylchreest/lut3d/internal/lut"
)

// DefaultSamples is the number of grey levels sampled when Options.Samples is zero.
const DefaultSamples = 256

// Options configures a curve plot.
type Options struct {
	Title   string
	Samples int
	Width   vg.Length
	Height  vg.Length
}

// Curve is the sampled response of one output channel.
type Curve struct {
	Name  string
	Color color.Color
	XYs   plotter.XYs
}

// Sample evaluates the grid along the grey axis from black to white and
// returns one curve per output channel.
func Sample(g *lut.Grid, sampler lut.Sampler, samples int) []Curve {
	if samples < 2 {
		samples = DefaultSamples
	}
	top := float32(g.Size() - 1)

	curves := []Curve{
		{Name: "R", Color: color.RGBA{R: 220, A: 255}, XYs: make(plotter.XYs, samples)},
		{Name: "G", Color: color.RGBA{G: 160, A: 255}, XYs: make(plotter.XYs, samples)},
		{Name: "B", Color: color.RGBA{B: 220, A: 255}, XYs: make(plotter.XYs, samples)},
	}
	for i := 0; i < samples; i++ {
		x := float32(i) / float32(samples-1)
		s := x * top
		v := sampler.Sample(g, lut.RGB{R: s, G: s, B: s})
		curves[0].XYs[i] = plotter.XY{X: float64(x), Y: float64(v.R)}
		curves[1].XYs[i] = plotter.XY{X: float64(x), Y: float64(v.G)}
		curves[2].XYs[i] = plotter.XY{X: float64(x), Y: float64(v.B)}
	}
	return curves
}

// Plot builds a plot of the grey-axis response with an identity reference line.
func Plot(g *lut.Grid, sampler lut.Sampler, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("3D LUT response (%d points per axis)", g.Size())
	}
	p.X.Label.Text = "Input (grey)"
	p.Y.Label.Text = "Output"
	p.Add(plotter.NewGrid())

	identity, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, err
	}
	identity.Color = color.Gray{Y: 160}
	identity.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(identity)
	p.Legend.Add("identity", identity)

	for _, c := range Sample(g, sampler, opts.Samples) {
		line, err := plotter.NewLine(c.XYs)
		if err != nil {
			return nil, err
		}
		line.Color = c.Color
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(c.Name, line)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// Render plots the response and saves it to path. The image format follows
// the extension: png, svg, pdf, eps, jpg or tif.
func Render(g *lut.Grid, sampler lut.Sampler, path string, opts Options) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff":
	default:
		return fmt.Errorf("unsupported plot format: %q", ext)
	}

	p, err := Plot(g, sampler, opts)
	if err != nil {
		return fmt.Errorf("failed to build plot: %w", err)
	}

	width, height := opts.Width, opts.Height
	if width == 0 {
		width = 8 * vg.Inch
	}
	if height == 0 {
		height = 6 * vg.Inch
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
