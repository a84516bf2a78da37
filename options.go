package rt

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	// Default: sequential gradient
//	r, err := rt.NewRenderer(256, 256)
//
//	// Parallel rows with a progress side channel
//	r, err := rt.NewRenderer(1920, 1080,
//	    rt.WithWorkers(0),
//	    rt.WithProgress(spinner),
//	)
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	shader    Shader
	workers   int
	band      int
	progress  Progress
	logger    *slog.Logger
	transform *mgl64.Mat3
}

// defaultOptions returns the default renderer options.
func defaultOptions() rendererOptions {
	return rendererOptions{
		shader:   Gradient,
		workers:  1,
		band:     defaultBandRows,
		progress: nopProgress{},
		logger:   nil, // falls back to Logger()
	}
}

// WithShader sets the per-pixel formula. A nil shader keeps Gradient.
func WithShader(s Shader) RendererOption {
	return func(o *rendererOptions) {
		if s != nil {
			o.shader = s
		}
	}
}

// WithWorkers sets how many goroutines compute rows.
// 1 renders sequentially on the calling goroutine; 0 or a negative value
// uses GOMAXPROCS. Output order does not depend on this setting.
func WithWorkers(n int) RendererOption {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithBandRows sets how many rows are computed before they are emitted when
// rendering in parallel. It bounds the memory held for out-of-order rows.
func WithBandRows(rows int) RendererOption {
	return func(o *rendererOptions) {
		if rows > 0 {
			o.band = rows
		}
	}
}

// WithProgress sets the progress side channel. A nil value disables it.
func WithProgress(p Progress) RendererOption {
	return func(o *rendererOptions) {
		if p == nil {
			p = nopProgress{}
		}
		o.progress = p
	}
}

// WithLogger sets a logger for this renderer only, overriding SetLogger.
func WithLogger(l *slog.Logger) RendererOption {
	return func(o *rendererOptions) {
		o.logger = l
	}
}

// WithCoordTransform applies a 2D homogeneous transform to the normalized
// coordinates before they reach the shader. (u, v) is treated as the point
// (u, v, 1) and the first two components of m·p are used.
// The transform is not validated: mapping outside [0,1] is allowed and
// simply feeds out-of-range values to the shader.
func WithCoordTransform(m mgl64.Mat3) RendererOption {
	return func(o *rendererOptions) {
		o.transform = &m
	}
}

// FlipTransform returns the coordinate transform that mirrors the image
// left-right, top-bottom, or both. With both false it is the identity.
func FlipTransform(horizontal, vertical bool) mgl64.Mat3 {
	sx, sy, tx, ty := 1.0, 1.0, 0.0, 0.0
	if horizontal {
		sx, tx = -1, 1
	}
	if vertical {
		sy, ty = -1, 1
	}
	return mgl64.Translate2D(tx, ty).Mul3(mgl64.Scale2D(sx, sy))
}
