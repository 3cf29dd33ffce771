package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/lut3d/internal/filter"
	imageutil "github.com/jmylchreest/lut3d/internal/image"
	"github.com/jmylchreest/lut3d/internal/lut"
)

type applyOptions struct {
	lutFile  string
	interp   lut.Interpolation
	output   string
	format   string
	quality  int
	workers  int
	datSize  int
	fallback bool
	cacheDir string
	refresh  bool
}

func newApplyCmd() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <image>",
		Short: "Apply a 3D LUT to an image",
		Long: `Apply a 3D LUT to an image and write the result.

The LUT format is chosen from the file extension: .cube, .3dl, .dat or .m3d,
optionally followed by .gz, .bz2 or .xz. A LUT inside a zip archive is named
as archive.zip#path/to/member.cube. HTTPS URLs are downloaded once and cached.
Without --lut (or LUT3D_FILE) the identity LUT is used.

The input image may be a file, an HTTP(S) URL or "-" for standard input.
Images with 16 bits per channel (PNG, TIFF) are processed at 16 bits.
The output format follows the output file extension (png, jpg, tiff, bmp).

Examples:
  # Apply a cube LUT with the default tetrahedral interpolation
  lut3d apply --lut film.cube -o graded.png photo.jpg

  # Use trilinear interpolation
  lut3d apply --lut film.cube --interp trilinear -o graded.png photo.jpg

  # Read a compressed LUT and write a 16-bit TIFF
  lut3d apply --lut film.cube.xz -o graded.tiff scan.tiff

  # Write PNG to stdout
  lut3d apply --lut film.cube photo.jpg > graded.png

  # Filter standard input to standard output
  cat photo.png | lut3d apply --lut film.cube - > graded.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.lutFile, "lut", "l", "", "LUT file, zip member or HTTPS URL (default: identity, or $"+filter.EnvFile+")")
	addInterpFlag(cmd, &opts.interp)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output image (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "png", "image format when writing to stdout (png, jpeg, tiff, bmp)")
	cmd.Flags().IntVar(&opts.quality, "quality", imageutil.DefaultJPEGQuality, "JPEG quality (1-100)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "goroutines per image (default: number of CPUs)")
	cmd.Flags().IntVar(&opts.datSize, "dat-size", lut.DatSize, "grid size assumed for .dat files")
	cmd.Flags().BoolVar(&opts.fallback, "fallback-identity", false, "use the identity LUT if the LUT cannot be loaded")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "directory for downloaded LUTs (default: user cache dir)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "download remote LUTs again even if cached")

	return cmd
}

func runApply(cmd *cobra.Command, opts *applyOptions, input string) error {
	logger := newLogger(cmd)

	if opts.quality < 1 || opts.quality > 100 {
		return fmt.Errorf("invalid quality: %d (valid: 1-100)", opts.quality)
	}

	out := cmd.OutOrStdout()
	if opts.output == "" || opts.output == "-" {
		if isTerminal(out) {
			return fmt.Errorf("refusing to write image data to a terminal; use --output or redirect stdout")
		}
	} else if _, err := imageutil.EncoderFormat(opts.output); err != nil {
		return err
	}

	f, err := buildFilter(cmd, opts, logger)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger.Debug("loading image", "path", input)
	img, err := imageutil.NewSmartLoader().WithStdin(cmd.InOrStdin()).Load(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy(), "16bit", imageutil.Is16Bit(img))

	start := time.Now()
	result, err := f.ApplyImage(img)
	if err != nil {
		return fmt.Errorf("failed to apply LUT: %w", err)
	}
	logger.Debug("LUT applied", "elapsed", time.Since(start))

	saveOpts := imageutil.SaveOptions{Quality: opts.quality}
	if opts.output == "" || opts.output == "-" {
		return imageutil.Encode(out, result, opts.format, saveOpts)
	}
	if err := imageutil.Save(opts.output, result, saveOpts); err != nil {
		return err
	}
	logger.Info("wrote image", "path", opts.output)
	return nil
}

func buildFilter(cmd *cobra.Command, opts *applyOptions, logger hclog.Logger) (*filter.Filter, error) {
	config := filter.DefaultConfig()
	config.File = opts.lutFile
	config.Workers = opts.workers
	config.DatSize = opts.datSize
	config.Cache.CacheDir = opts.cacheDir
	config.Cache.AllowOverwrite = opts.refresh

	builder := filter.NewBuilder().
		WithConfig(config).
		WithEnvConfig().
		WithLogger(logger)
	if cmd.Flags().Changed("interp") {
		builder = builder.WithInterpolation(opts.interp)
	}

	ctx := commandContext(cmd)
	f, err := builder.Build(ctx)
	if err == nil {
		return f, nil
	}
	if !opts.fallback || isConfigError(err) {
		return nil, fmt.Errorf("failed to load LUT: %w", err)
	}

	logger.Warn("failed to load LUT, using identity", "error", err)
	config.File = ""
	builder = filter.NewBuilder().WithConfig(config).WithLogger(logger)
	if cmd.Flags().Changed("interp") {
		builder = builder.WithInterpolation(opts.interp)
	}
	return builder.Build(ctx)
}

// isConfigError reports errors that falling back to identity would hide.
func isConfigError(err error) bool {
	return errors.Is(err, lut.ErrUnrecognizedFormat)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
