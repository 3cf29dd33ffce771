package pixel

import (
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/lut3d/internal/lut"
)

// minRowsPerTask keeps tiny images from being split into many goroutines.
const minRowsPerTask = 16

// Pipeline applies a grid to pixel buffers with a sampler chosen once at
// construction. It keeps no per-call state and may be used concurrently.
type Pipeline struct {
	grid    *lut.Grid
	mode    lut.Interpolation
	sampler lut.Sampler
	workers int
	logger  hclog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets the number of goroutines used per Apply call.
// Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New binds grid and the sampler for mode into a Pipeline.
func New(grid *lut.Grid, mode lut.Interpolation, opts ...Option) (*Pipeline, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", lut.ErrEmptyResult)
	}
	sampler, err := lut.NewSampler(mode)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		grid:    grid,
		mode:    mode,
		sampler: sampler,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	return p, nil
}

// Grid returns the grid the pipeline samples.
func (p *Pipeline) Grid() *lut.Grid {
	return p.grid
}

// Interpolation returns the interpolation mode the pipeline was bound with.
func (p *Pipeline) Interpolation() lut.Interpolation {
	return p.mode
}

// Apply transforms every pixel of src and returns the buffer written to.
//
// When inPlace is true src is overwritten and dst is ignored. Otherwise the
// result goes to dst, which must have the same geometry and layout as src;
// a nil dst is allocated. A fourth sample (alpha or padding) is copied from
// src to dst unchanged; in place it is simply left alone.
func (p *Pipeline) Apply(dst, src *Buffer, inPlace bool) (*Buffer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source buffer", ErrGeometry)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	switch {
	case inPlace:
		dst = src
	case dst == nil:
		var err error
		dst, err = allocateLike(src)
		if err != nil {
			return nil, err
		}
	default:
		if err := dst.Validate(); err != nil {
			return nil, err
		}
		if dst.Width != src.Width || dst.Height != src.Height || !dst.Layout.Same(src.Layout) {
			return nil, fmt.Errorf("%w: destination %dx%d does not match source %dx%d",
				ErrGeometry, dst.Width, dst.Height, src.Width, src.Height)
		}
	}

	copyFourth := !inPlace && src.Layout.HasFourth()
	p.logger.Trace("applying LUT",
		"width", src.Width, "height", src.Height, "depth", src.Layout.Depth,
		"interp", p.mode, "in_place", inPlace, "workers", p.workers)

	if src.Layout.Depth == 16 {
		p.run(dst, src, func(d, s []byte) {
			applyRow(p, codec16{order: src.Layout.byteOrder()}, src.Layout, d, s, src.Width, copyFourth)
		})
	} else {
		p.run(dst, src, func(d, s []byte) {
			applyRow(p, codec8{}, src.Layout, d, s, src.Width, copyFourth)
		})
	}
	return dst, nil
}

// run splits the image into bands of rows and processes them in parallel.
// Rows are independent, so no ordering between bands is required.
func (p *Pipeline) run(dst, src *Buffer, fn func(d, s []byte)) {
	rowsPerTask := max(src.Height/(p.workers*4), minRowsPerTask)

	var g errgroup.Group
	g.SetLimit(p.workers)
	for y0 := 0; y0 < src.Height; y0 += rowsPerTask {
		y1 := min(y0+rowsPerTask, src.Height)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				fn(dst.row(y), src.row(y))
			}
			return nil
		})
	}
	// Row tasks never return an error.
	_ = g.Wait()
}

func allocateLike(src *Buffer) (buf *Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("failed to allocate %dx%d destination buffer: %v", src.Width, src.Height, r)
		}
	}()
	return NewBuffer(src.Width, src.Height, src.Layout)
}

// codec reads and writes integer samples of one bit depth.
type codec interface {
	get(row []byte, i int) uint32
	put(row []byte, i int, v uint32)
}

type codec8 struct{}

func (codec8) get(row []byte, i int) uint32    { return uint32(row[i]) }
func (codec8) put(row []byte, i int, v uint32) { row[i] = uint8(v) }

type codec16 struct {
	order binary.ByteOrder
}

func (c codec16) get(row []byte, i int) uint32    { return uint32(c.order.Uint16(row[2*i:])) }
func (c codec16) put(row []byte, i int, v uint32) { c.order.PutUint16(row[2*i:], uint16(v)) }

// applyRow is shared by both bit depths; C is instantiated per depth.
func applyRow[C codec](p *Pipeline, c C, l Layout, dst, src []byte, width int, copyFourth bool) {
	scale := lut.Scale(l.Depth, p.grid.Size())
	maxv := float32(l.MaxValue())
	g := p.grid

	for x, end := 0, width*l.Step; x < end; x += l.Step {
		s := lut.RGB{
			R: float32(c.get(src, x+l.R)) * scale,
			G: float32(c.get(src, x+l.G)) * scale,
			B: float32(c.get(src, x+l.B)) * scale,
		}
		v := p.sampler.Sample(g, s)
		c.put(dst, x+l.R, quantize(v.R, maxv))
		c.put(dst, x+l.G, quantize(v.G, maxv))
		c.put(dst, x+l.B, quantize(v.B, maxv))
		if copyFourth {
			c.put(dst, x+l.A, c.get(src, x+l.A))
		}
	}
}

// quantize converts a colour-space value to the integer domain [0, maxv],
// rounding to nearest.
func quantize(v, maxv float32) uint32 {
	x := v * maxv
	if !(x > 0) { // also catches NaN
		return 0
	}
	if x >= maxv {
		return uint32(maxv)
	}
	return uint32(x + .5)
}
