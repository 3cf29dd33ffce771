package colour

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/jmylchreest/lut3d/internal/lut"
)

// DefaultSteps is the number of swatches per ramp when none is given.
const DefaultSteps = 9

// Ramp is one line of a preview: input colours and their LUT outputs.
type Ramp struct {
	Name string
	In   []color.NRGBA
	Out  []color.NRGBA
}

// rampEnds are the colours each ramp runs to from black.
var rampEnds = []struct {
	name string
	end  lut.RGB
}{
	{"grey", lut.RGB{R: 1, G: 1, B: 1}},
	{"red", lut.RGB{R: 1}},
	{"green", lut.RGB{G: 1}},
	{"blue", lut.RGB{B: 1}},
	{"cyan", lut.RGB{G: 1, B: 1}},
	{"magenta", lut.RGB{R: 1, B: 1}},
	{"yellow", lut.RGB{R: 1, G: 1}},
}

// Ramps samples g from black towards white and each primary and secondary
// colour in steps swatches.
func Ramps(g *lut.Grid, sampler lut.Sampler, steps int) []Ramp {
	if steps < 2 {
		steps = DefaultSteps
	}
	top := float32(g.Size() - 1)

	ramps := make([]Ramp, 0, len(rampEnds))
	for _, re := range rampEnds {
		r := Ramp{Name: re.name, In: make([]color.NRGBA, steps), Out: make([]color.NRGBA, steps)}
		for i := 0; i < steps; i++ {
			t := float32(i) / float32(steps-1)
			in := lut.RGB{R: re.end.R * t, G: re.end.G * t, B: re.end.B * t}
			out := sampler.Sample(g, lut.RGB{R: in.R * top, G: in.G * top, B: in.B * top})
			r.In[i] = toNRGBA(in)
			r.Out[i] = toNRGBA(out)
		}
		ramps = append(ramps, r)
	}
	return ramps
}

// Render draws each ramp as two rows of swatches, input above output.
func Render(ramps []Ramp, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	nameWidth := 0
	for _, r := range ramps {
		nameWidth = max(nameWidth, len(r.Name))
	}

	var sb strings.Builder
	for _, r := range ramps {
		fmt.Fprintf(&sb, "%-*s  in  ", nameWidth, r.Name)
		for _, c := range r.In {
			sb.WriteString(Swatch(c, width))
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%-*s  out ", nameWidth, "")
		for _, c := range r.Out {
			sb.WriteString(Swatch(c, width))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func toNRGBA(v lut.RGB) color.NRGBA {
	return color.NRGBA{R: to8(v.R), G: to8(v.G), B: to8(v.B), A: 255}
}

func to8(v float32) uint8 {
	x := v * 255
	if !(x > 0) {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x + .5)
}
