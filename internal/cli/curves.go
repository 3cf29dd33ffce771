package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/lut3d/internal/curves"
	"github.com/jmylchreest/lut3d/internal/filter"
	"github.com/jmylchreest/lut3d/internal/lut"
)

type curvesOptions struct {
	interp  lut.Interpolation
	output  string
	title   string
	samples int
	datSize int
}

func newCurvesCmd() *cobra.Command {
	opts := &curvesOptions{}

	cmd := &cobra.Command{
		Use:   "curves <lut>",
		Short: "Plot the neutral-axis response of a 3D LUT",
		Long: `Sample a 3D LUT along the grey axis (black to white) and plot the red,
green and blue output against the input. The plot format follows the output
extension: png, svg, pdf, eps, jpg or tiff.

Examples:
  lut3d curves -o film.png film.cube
  lut3d curves --interp trilinear -o film.svg film.3dl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurves(cmd, opts, args[0])
		},
	}

	addInterpFlag(cmd, &opts.interp)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "plot file to write (required)")
	cmd.Flags().StringVar(&opts.title, "title", "", "plot title")
	cmd.Flags().IntVar(&opts.samples, "samples", curves.DefaultSamples, "grey levels to sample")
	cmd.Flags().IntVar(&opts.datSize, "dat-size", lut.DatSize, "grid size assumed for .dat files")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runCurves(cmd *cobra.Command, opts *curvesOptions, source string) error {
	logger := newLogger(cmd)

	if opts.samples < 2 {
		return fmt.Errorf("invalid samples: %d (minimum: 2)", opts.samples)
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

	title := opts.title
	if title == "" {
		title = fmt.Sprintf("%s (%s)", source, opts.interp)
	}
	if err := curves.Render(grid, sampler, opts.output, curves.Options{Title: title, Samples: opts.samples}); err != nil {
		return err
	}
	logger.Info("wrote curves", "path", opts.output)
	return nil
}
