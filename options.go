// SPDX-License-Identifier: MIT

package pathfinder

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/pathfinder/contour"
	"github.com/katalvlaran/pathfinder/cover"
	"github.com/katalvlaran/pathfinder/pathgraph"
)

// Defaults (single source of truth for DefaultOptions and the CLI).
const (
	DefaultNumOscs            = cover.DefaultNumOscs
	DefaultNumRays            = cover.DefaultNumRays
	DefaultBallMergeThresh    = cover.DefaultMergeThresh
	DefaultImagThresh         = cover.DefaultImagThresh
	DefaultContourStartThresh = 1e-16
)

// Options holds the Quad configuration.
//
// NumOscs         – oscillations of exp(iΦ) a ball (and a direct chord) may hold.
// NumRays         – rays cast per ball radius search.
// BallMergeThresh – boundary gap below which two balls merge.
// InteriorBalls   – also cover the finite endpoints with balls.
// ImagThresh      – decay level at which a ray (or the direct check) stops.
// Accelerated     – run the ray search, tracing and node refinement on a
//
//	goroutine pool; output is identical to the portable path.
//
// ContourStartThresh – relative magnitude below which route pieces are
//
//	dropped (0 keeps everything).
//
// Logger           – receives stage events at debug level.
// Geometry         – attach balls, valleys, segments and route to the Result.
// FastPaths        – allow the closed-form and direct shortcuts.
// StrictStationary – coincident stationary points fail instead of merging.
type Options struct {
	NumOscs            float64
	NumRays            int
	BallMergeThresh    float64
	InteriorBalls      bool
	ImagThresh         float64
	Accelerated        bool
	ContourStartThresh float64
	Logger             *zap.Logger
	Geometry           bool
	FastPaths          bool
	StrictStationary   bool
}

// Option configures Quad.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		NumOscs:            DefaultNumOscs,
		NumRays:            DefaultNumRays,
		BallMergeThresh:    DefaultBallMergeThresh,
		ImagThresh:         DefaultImagThresh,
		ContourStartThresh: DefaultContourStartThresh,
		Logger:             zap.NewNop(),
		FastPaths:          true,
	}
}

// WithNumOscs sets the oscillation budget. Panics unless n > 0.
func WithNumOscs(n float64) Option {
	return func(o *Options) {
		if !(n > 0) {
			panic("pathfinder: NumOscs must be > 0")
		}
		o.NumOscs = n
	}
}

// WithNumRays sets the ray count. Panics unless n ≥ 1.
func WithNumRays(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("pathfinder: NumRays must be ≥ 1")
		}
		o.NumRays = n
	}
}

// WithBallMergeThresh sets the merge gap. Panics on a negative or NaN value.
func WithBallMergeThresh(t float64) Option {
	return func(o *Options) {
		if !(t >= 0) {
			panic("pathfinder: BallMergeThresh must be ≥ 0")
		}
		o.BallMergeThresh = t
	}
}

// WithInteriorBalls covers the finite endpoints with balls too.
func WithInteriorBalls() Option {
	return func(o *Options) { o.InteriorBalls = true }
}

// WithImagThresh sets the decay cut-off. Panics unless t > 0.
func WithImagThresh(t float64) Option {
	return func(o *Options) {
		if !(t > 0) {
			panic("pathfinder: ImagThresh must be > 0")
		}
		o.ImagThresh = t
	}
}

// WithAccelerated toggles the concurrent implementations.
func WithAccelerated(on bool) Option {
	return func(o *Options) { o.Accelerated = on }
}

// WithContourStartThresh sets the relative pruning threshold. Panics on a
// negative or NaN value.
func WithContourStartThresh(t float64) Option {
	return func(o *Options) {
		if !(t >= 0) {
			panic("pathfinder: ContourStartThresh must be ≥ 0")
		}
		o.ContourStartThresh = t
	}
}

// WithLogger sets the logger; nil restores the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.Logger = l
	}
}

// WithGeometry attaches the contour geometry to the Result. It has no
// effect on nodes or weights.
func WithGeometry() Option {
	return func(o *Options) { o.Geometry = true }
}

// WithoutFastPaths forces the general pipeline. A constant phase still
// uses its closed form: it has no valleys to deform into.
func WithoutFastPaths() Option {
	return func(o *Options) { o.FastPaths = false }
}

// WithStrictStationary makes coincident stationary points an error.
func WithStrictStationary() Option {
	return func(o *Options) { o.StrictStationary = true }
}

func (o Options) coverConfig() cover.Config {
	cfg := cover.DefaultConfig()
	cfg.NumOscs = o.NumOscs
	cfg.NumRays = o.NumRays
	cfg.MergeThresh = o.BallMergeThresh
	cfg.ImagThresh = o.ImagThresh
	cfg.InteriorBalls = o.InteriorBalls

	return cfg
}

func (o Options) searcher() cover.RadiusSearcher {
	if o.Accelerated {
		return cover.ParallelSearcher{}
	}

	return cover.SerialSearcher{}
}

func (o Options) contourConfig(workers int) contour.Config {
	cfg := contour.DefaultConfig()
	if o.Accelerated {
		cfg.Workers = workers
	}

	return cfg
}

func (o Options) graphConfig() pathgraph.Config {
	cfg := pathgraph.DefaultConfig()
	cfg.NumOscs = o.NumOscs
	cfg.ImagThresh = o.ImagThresh

	return cfg
}
