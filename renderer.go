package rt

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/gogpu/rt/internal/parallel"
)

// defaultBandRows is the number of rows computed ahead of emission when
// rendering in parallel.
const defaultBandRows = 64

// ErrInvalidSize is returned for image dimensions the pipeline cannot map.
// Normalized coordinates divide by width-1 and height-1, so both dimensions
// must be at least 2.
var ErrInvalidSize = errors.New("rt: invalid image size")

// Shader computes the color of the pixel at normalized coordinates (u, v).
// u runs 0..1 left to right, v runs 0..1 top to bottom.
// A Shader must be a pure function: it may be called from several
// goroutines and in any order.
type Shader func(u, v float64) Color

// Gradient is the default shader: red follows u, green follows v, blue is 0.
func Gradient(u, v float64) Color {
	return NewColor(u, v, 0)
}

// Progress observes a scan without influencing it.
//
// Row is called once per row with increasing j, right before that row is
// emitted, always from the goroutine that called Render or RenderFrame.
// Finish is called once when the scan stops, whether it completed or not.
type Progress interface {
	Row(j, height int)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Row(int, int) {}
func (nopProgress) Finish()      {}

// Renderer maps a fixed pixel grid to colors in row-major order.
//
// A Renderer holds no mutable state after construction; Render may be
// called repeatedly and always produces the same bytes.
type Renderer struct {
	width  int
	height int
	opts   rendererOptions
}

// NewRenderer creates a renderer for a width×height image.
// Both dimensions must be at least 2, otherwise ErrInvalidSize is returned.
func NewRenderer(width, height int, opts ...RendererOption) (*Renderer, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: width=%d, height=%d (both must be >= 2)", ErrInvalidSize, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Renderer{width: width, height: height, opts: o}, nil
}

// Width returns the image width in pixels.
func (r *Renderer) Width() int {
	return r.width
}

// Height returns the image height in pixels.
func (r *Renderer) Height() int {
	return r.height
}

// Workers returns the number of goroutines used to compute rows.
func (r *Renderer) Workers() int {
	if r.opts.workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return r.opts.workers
}

// Coord returns the normalized coordinates of column i, row j, after the
// transform set by WithCoordTransform, if any.
func (r *Renderer) Coord(i, j int) (u, v float64) {
	u, v = float64(i)/float64(r.width-1), float64(j)/float64(r.height-1)
	if m := r.opts.transform; m != nil {
		p := FromMgl(m.Mul3x1(V3(u, v, 1).Mgl()))
		u, v = p.X, p.Y
	}
	return u, v
}

// Scan calls fn for every pixel in row-major order: all columns of row 0
// left to right, then row 1, and so on. It does not report progress.
func (r *Renderer) Scan(fn func(i, j int, u, v float64)) {
	for j := range r.height {
		for i := range r.width {
			u, v := r.Coord(i, j)
			fn(i, j, u, v)
		}
	}
}

// Render writes the image to w as plain-text PPM.
//
// The header is followed by one line per pixel in row-major order. Output
// is buffered; on a write error the scan stops and the error is returned,
// leaving a truncated image behind.
func (r *Renderer) Render(w io.Writer) error {
	pw := NewPPMWriter(w)
	if err := pw.WriteHeader(r.width, r.height); err != nil {
		return err
	}

	err := r.rows(func(_ int, row []Color) error {
		for _, c := range row {
			if err := pw.WritePixel(c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return pw.Flush()
}

// RenderFrame renders the image into memory.
func (r *Renderer) RenderFrame() *Frame {
	f := NewFrame(r.width, r.height)
	// The emit callback never fails.
	_ = r.rows(func(j int, row []Color) error {
		copy(f.pix[j*f.width:(j+1)*f.width], row)
		return nil
	})
	return f
}

// logger returns the renderer's logger, falling back to the package logger.
func (r *Renderer) logger() *slog.Logger {
	if r.opts.logger != nil {
		return r.opts.logger
	}
	return Logger()
}

// shadeRow fills row with the colors of row j.
func (r *Renderer) shadeRow(j int, row []Color) {
	for i := range row {
		u, v := r.Coord(i, j)
		row[i] = r.opts.shader(u, v)
	}
}

// rows computes every row and hands it to emit in order. The row slice is
// reused after emit returns.
func (r *Renderer) rows(emit func(j int, row []Color) error) error {
	log := r.logger()
	workers := r.Workers()
	log.Debug("rt: scan start", "width", r.width, "height", r.height, "workers", workers)

	progress := r.opts.progress
	defer progress.Finish()

	var err error
	if workers == 1 {
		err = r.rowsSequential(emit)
	} else {
		err = r.rowsParallel(workers, emit)
	}
	if err != nil {
		log.Warn("rt: scan aborted", "err", err)
		return err
	}

	log.Debug("rt: scan finished", "pixels", r.width*r.height)
	return nil
}

func (r *Renderer) rowsSequential(emit func(j int, row []Color) error) error {
	row := make([]Color, r.width)
	for j := range r.height {
		r.shadeRow(j, row)
		r.opts.progress.Row(j, r.height)
		if err := emit(j, row); err != nil {
			return err
		}
	}
	return nil
}

// rowsParallel computes one band of rows at a time on a worker pool and
// emits the band sequentially once it is complete.
func (r *Renderer) rowsParallel(workers int, emit func(j int, row []Color) error) error {
	pool := parallel.NewWorkerPool(workers)
	defer pool.Close()

	bandRows := min(r.opts.band, r.height)
	buf := make([][]Color, bandRows)
	for k := range buf {
		buf[k] = make([]Color, r.width)
	}

	work := make([]func(), 0, bandRows)
	for _, band := range parallel.Bands(r.height, bandRows) {
		work = work[:0]
		for j := band.Start; j < band.End; j++ {
			row := buf[j-band.Start]
			work = append(work, func() { r.shadeRow(j, row) })
		}
		pool.ExecuteAll(work)
		r.logger().Debug("rt: band computed", "start", band.Start, "rows", band.Len())

		for j := band.Start; j < band.End; j++ {
			r.opts.progress.Row(j, r.height)
			if err := emit(j, buf[j-band.Start]); err != nil {
				return err
			}
		}
	}
	return nil
}
