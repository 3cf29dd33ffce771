package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/lut3d/internal/colour"
	"github.com/jmylchreest/lut3d/internal/filter"
	"github.com/jmylchreest/lut3d/internal/lut"
)

type inspectOptions struct {
	interp  lut.Interpolation
	samples []string
	asJSON  bool
	datSize int
	output  string
	preview bool
	steps   int
}

// inspectReport is the JSON form of the inspect output.
type inspectReport struct {
	Source        string         `json:"source"`
	Format        string         `json:"format"`
	Interpolation string         `json:"interpolation"`
	Stats         lut.Stats      `json:"stats"`
	Samples       []sampleResult `json:"samples,omitempty"`
}

type sampleResult struct {
	Input  [3]float32 `json:"input"`
	Output [3]float32 `json:"output"`
}

func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [lut]",
		Short: "Show information about a 3D LUT",
		Long: `Parse a 3D LUT and print its size, per-channel ranges and how far it
departs from the identity transform. Without an argument the identity LUT is
described.

Examples:
  # Summarise a cube LUT
  lut3d inspect film.cube

  # Evaluate the LUT at specific colours (components in 0..1)
  lut3d inspect --sample 0.5,0.5,0.5 --sample 1,0,0 film.cube

  # Show grey and colour ramps before and after the LUT (24-bit terminals)
  lut3d inspect --preview film.cube

  # Machine-readable output
  lut3d inspect --json film.3dl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			return runInspect(cmd, opts, source)
		},
	}

	addInterpFlag(cmd, &opts.interp)
	cmd.Flags().StringArrayVarP(&opts.samples, "sample", "s", nil, "colour to evaluate as r,g,b in 0..1 (repeatable)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "output as JSON")
	cmd.Flags().IntVar(&opts.datSize, "dat-size", lut.DatSize, "grid size assumed for .dat files")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&opts.preview, "preview", "p", false, "show colour ramps before and after the LUT")
	cmd.Flags().IntVar(&opts.steps, "preview-steps", colour.DefaultSteps, "swatches per preview ramp")
	cmd.MarkFlagsMutuallyExclusive("json", "preview")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *inspectOptions, source string) error {
	logger := newLogger(cmd)

	inputs := make([]lut.RGB, 0, len(opts.samples))
	for _, s := range opts.samples {
		v, err := parseSample(s)
		if err != nil {
			return err
		}
		inputs = append(inputs, v)
	}

	config := filter.DefaultConfig()
	config.File = source
	config.DatSize = opts.datSize
	grid, err := filter.LoadGrid(commandContext(cmd), config, logger)
	if err != nil {
		return fmt.Errorf("failed to load LUT: %w", err)
	}

	sampler, err := lut.NewSampler(opts.interp)
	if err != nil {
		return err
	}

	report := inspectReport{
		Source:        "identity",
		Format:        "identity",
		Interpolation: opts.interp.String(),
		Stats:         lut.ComputeStats(grid),
	}
	if source != "" {
		report.Source = source
		if f, err := lut.FormatFromPath(source); err == nil {
			report.Format = string(f)
		}
	}

	top := float32(grid.Size() - 1)
	for _, in := range inputs {
		out := sampler.Sample(grid, lut.RGB{R: in.R * top, G: in.G * top, B: in.B * top})
		report.Samples = append(report.Samples, sampleResult{
			Input:  [3]float32{in.R, in.G, in.B},
			Output: [3]float32{out.R, out.G, out.B},
		})
	}

	var text string
	if opts.asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		text = string(data) + "\n"
	} else {
		text = formatReport(report)
		if opts.preview {
			text += "\n" + colour.Render(colour.Ramps(grid, sampler, opts.steps), 0)
		}
	}
	return writeOutput(cmd, opts.output, text)
}

// parseSample parses "r,g,b" with components in [0, 1].
func parseSample(s string) (lut.RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return lut.RGB{}, fmt.Errorf("invalid sample %q: want r,g,b", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return lut.RGB{}, fmt.Errorf("invalid sample %q: %w", s, err)
		}
		if f < 0 || f > 1 {
			return lut.RGB{}, fmt.Errorf("invalid sample %q: components must be within 0..1", s)
		}
		v[i] = float32(f)
	}
	return lut.RGB{R: v[0], G: v[1], B: v[2]}, nil
}

func formatReport(r inspectReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source:         %s\n", r.Source)
	fmt.Fprintf(&sb, "Format:         %s\n", r.Format)
	fmt.Fprintf(&sb, "Size:           %d x %d x %d\n", r.Stats.Size, r.Stats.Size, r.Stats.Size)
	fmt.Fprintf(&sb, "Interpolation:  %s\n", r.Interpolation)
	fmt.Fprintf(&sb, "Deviation:      mean %.6f, max %.6f\n", r.Stats.MeanDeviation, r.Stats.MaxDeviation)
	fmt.Fprintf(&sb, "Out of range:   %d cells\n\n", r.Stats.OutOfRange)

	table := NewTable([]string{"Channel", "Min", "Max", "Mean", "StdDev"})
	for i := 1; i < 5; i++ {
		table.SetAlignRight(i)
	}
	for _, ch := range []struct {
		name string
		s    lut.ChannelStats
	}{{"R", r.Stats.R}, {"G", r.Stats.G}, {"B", r.Stats.B}} {
		table.AddRow(ch.name, ftoa(ch.s.Min), ftoa(ch.s.Max), ftoa(ch.s.Mean), ftoa(ch.s.StdDev))
	}
	sb.WriteString(table.Render())

	if len(r.Samples) > 0 {
		sb.WriteString("\n")
		samples := NewTable([]string{"Input", "Output"})
		for _, s := range r.Samples {
			samples.AddRow(triplet(s.Input), triplet(s.Output))
		}
		sb.WriteString(samples.Render())
	}
	return sb.String()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func triplet(v [3]float32) string {
	return fmt.Sprintf("%.6f %.6f %.6f", v[0], v[1], v[2])
}
