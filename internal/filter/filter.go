// Package filter ties a parsed LUT, an interpolation mode and the pixel
// pipeline together into a reusable image filter.
package filter

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	imageutil "github.com/jmylchreest/lut3d/internal/image"
	"github.com/jmylchreest/lut3d/internal/lut"
	"github.com/jmylchreest/lut3d/internal/pixel"
	"github.com/jmylchreest/lut3d/internal/util/lutcache"
)

// Environment variables read by Builder.WithEnvConfig.
const (
	EnvFile   = "LUT3D_FILE"
	EnvInterp = "LUT3D_INTERP"
)

// Config holds the filter settings.
type Config struct {
	// File is a LUT path or HTTP(S) URL. Empty means the identity LUT.
	File string

	// Interpolation selects the sampler.
	Interpolation lut.Interpolation

	// DatSize overrides the grid side assumed for .dat files. Zero means lut.DatSize.
	DatSize int

	// Cache configures downloads of remote LUT files.
	Cache lutcache.CacheOptions

	// Workers bounds the goroutines used per image. Zero means GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the default filter configuration: identity LUT,
// tetrahedral interpolation.
func DefaultConfig() Config {
	return Config{
		Interpolation: lut.DefaultInterpolation,
	}
}

// Builder assembles a Filter.
type Builder struct {
	config    Config
	useEnv    bool
	interpSet bool
	logger    hclog.Logger
}

// NewBuilder returns a Builder starting from DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{
		config: DefaultConfig(),
		logger: hclog.NewNullLogger(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(config Config) *Builder {
	b.config = config
	return b
}

// WithInterpolation sets the interpolation mode. It takes precedence over
// LUT3D_INTERP.
func (b *Builder) WithInterpolation(mode lut.Interpolation) *Builder {
	b.config.Interpolation = mode
	b.interpSet = true
	return b
}

// WithEnvConfig reads LUT3D_FILE when no file is configured and
// LUT3D_INTERP unless WithInterpolation was called.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// WithLogger sets the logger passed down to the parser and pipeline.
func (b *Builder) WithLogger(logger hclog.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Build loads the LUT and binds the pipeline. Parse failures are returned;
// falling back to the identity LUT is left to the caller.
func (b *Builder) Build(ctx context.Context) (*Filter, error) {
	config := b.config

	if b.useEnv {
		if config.File == "" {
			config.File = os.Getenv(EnvFile)
		}
		if interp := os.Getenv(EnvInterp); interp != "" && !b.interpSet {
			mode, err := lut.ParseInterpolation(interp)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", EnvInterp, err)
			}
			config.Interpolation = mode
		}
	}

	grid, err := LoadGrid(ctx, config, b.logger)
	if err != nil {
		return nil, err
	}

	pipe, err := pixel.New(grid, config.Interpolation,
		pixel.WithWorkers(config.Workers),
		pixel.WithLogger(b.logger.Named("pipeline")))
	if err != nil {
		return nil, err
	}

	b.logger.Debug("filter ready", "lut", displayName(config.File), "size", grid.Size(), "interp", config.Interpolation)
	return &Filter{config: config, pipeline: pipe}, nil
}

// LoadGrid resolves config.File to a grid: the identity grid when empty,
// otherwise the parsed local file or cached download.
func LoadGrid(ctx context.Context, config Config, logger hclog.Logger) (*lut.Grid, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if config.File == "" {
		return lut.Identity(lut.DefaultSize)
	}

	path := config.File
	if lutcache.IsRemote(path) {
		logger.Debug("fetching remote LUT", "url", path)
		cached, err := lutcache.DownloadAndCache(ctx, path, config.Cache)
		if err != nil {
			return nil, err
		}
		logger.Debug("using cached LUT", "path", cached)
		path = cached
	}

	opts := []lut.Option{lut.WithLogger(logger.Named("parser"))}
	if config.DatSize != 0 {
		opts = append(opts, lut.WithDatSize(config.DatSize))
	}
	return lut.ParseFile(path, opts...)
}

func displayName(file string) string {
	if strings.TrimSpace(file) == "" {
		return "identity"
	}
	return file
}

// Filter applies one LUT with one interpolation mode to any number of
// images. It is safe for concurrent use.
type Filter struct {
	config   Config
	pipeline *pixel.Pipeline
}

// Config returns the resolved configuration.
func (f *Filter) Config() Config {
	return f.config
}

// Grid returns the loaded LUT.
func (f *Filter) Grid() *lut.Grid {
	return f.pipeline.Grid()
}

// Interpolation returns the interpolation mode in use.
func (f *Filter) Interpolation() lut.Interpolation {
	return f.pipeline.Interpolation()
}

// Apply transforms a raw pixel buffer. See pixel.Pipeline.Apply.
func (f *Filter) Apply(dst, src *pixel.Buffer, inPlace bool) (*pixel.Buffer, error) {
	return f.pipeline.Apply(dst, src, inPlace)
}

// ApplyImage returns a new image with the LUT applied. img is not modified.
func (f *Filter) ApplyImage(img image.Image) (image.Image, error) {
	buf, err := imageutil.ToBuffer(img)
	if err != nil {
		return nil, err
	}
	// ToBuffer never aliases img, so the conversion buffer can be reused.
	out, err := f.pipeline.Apply(nil, buf, true)
	if err != nil {
		return nil, err
	}
	return imageutil.FromBuffer(out)
}
