// SPDX-License-Identifier: MIT

package pathfinder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/pathfinder/contour"
	"github.com/katalvlaran/pathfinder/cover"
	"github.com/katalvlaran/pathfinder/pathfilter"
	"github.com/katalvlaran/pathfinder/pathgraph"
	"github.com/katalvlaran/pathfinder/phase"
	"github.com/katalvlaran/pathfinder/quadrature"
)

// Quad returns nodes and weights for ∫_a^b f(z)·exp(i·k·g(z)) dz, where g
// has the coefficients coeffs (highest degree first), with n nodes per
// contour piece. See QuadContext.
func Quad(a, b Endpoint, coeffs []complex128, k complex128, n int, opts ...Option) (*Result, error) {
	return QuadContext(context.Background(), a, b, coeffs, k, n, opts...)
}

// QuadContext is Quad with cancellation between and inside stages.
//
// Implementation:
//   - Stage 1: validate, build the scaled phase Φ = k·g.
//   - Stage 2: shortcuts (constant, linear, direct chord).
//   - Stage 3: analysis → cover → contours → graph → path → filter →
//     quadrature, each timed into Result.Timings.
//
// Errors:
//   - ErrBadPointCount for n ≤ 0.
//   - ErrDegenerateInput, ErrNoPath, ErrInfiniteIntegral (wrapping the
//     stage error), or ctx.Err().
func QuadContext(ctx context.Context, a, b Endpoint, coeffs []complex128, k complex128, n int, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadPointCount, n)
	}

	phi, err := scaledPhase(coeffs, k)
	if err != nil {
		return nil, err
	}
	ends := [2]Endpoint{a, b}
	if err := checkEndpoints(ends); err != nil {
		return nil, err
	}

	r := &run{
		ctx:  ctx,
		opts: o,
		log:  o.Logger.With(zap.Stringer("phase", phi), zap.Stringer("a", a), zap.Stringer("b", b)),
		phi:  phi,
		ends: ends,
		n:    n,
		res:  &Result{},
	}

	if phi.IsConstant() {
		return r.finish(r.stage(StageFastPath, r.constant))
	}
	if o.FastPaths {
		var done bool
		err := r.stage(StageFastPath, func() (err error) {
			done, err = r.fastPath()
			return err
		})
		if done || err != nil {
			return r.finish(err)
		}
	}

	return r.finish(r.pipeline())
}

// scaledPhase validates the coefficients and frequency and returns k·g.
func scaledPhase(coeffs []complex128, k complex128) (phase.Polynomial, error) {
	if cmplx.IsNaN(k) || cmplx.IsInf(k) {
		return phase.Polynomial{}, fmt.Errorf("%w: frequency %v", ErrDegenerateInput, k)
	}
	g, err := phase.NewPolynomial(coeffs...)
	if err != nil {
		return phase.Polynomial{}, fmt.Errorf("%w: %w", ErrDegenerateInput, err)
	}

	return g.Scale(k), nil
}

func checkEndpoints(ends [2]Endpoint) error {
	for i, e := range ends {
		switch {
		case e.Infinite && (math.IsNaN(e.Angle) || math.IsInf(e.Angle, 0)):
			return fmt.Errorf("%w: endpoint %d has angle %v", ErrDegenerateInput, i, e.Angle)
		case !e.Infinite && (cmplx.IsNaN(e.Z) || cmplx.IsInf(e.Z)):
			return fmt.Errorf("%w: endpoint %d is %v", ErrDegenerateInput, i, e.Z)
		}
	}

	return nil
}

// run carries the state of one call.
type run struct {
	ctx  context.Context
	opts Options
	log  *zap.Logger
	phi  phase.Polynomial
	ends [2]Endpoint
	n    int
	res  *Result
}

// stage times fn and records it.
func (r *run) stage(name string, fn func() error) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	took := time.Since(start)
	r.res.Timings = append(r.res.Timings, StageTiming{Stage: name, Duration: took})
	r.log.Debug("stage done", zap.String("stage", name), zap.Duration("took", took), zap.Error(err))

	return err
}

func (r *run) warn(kind WarningKind, stage, format string, args ...any) {
	w := Warning{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...)}
	r.res.Warnings = append(r.res.Warnings, w)
	r.log.Warn(w.Message, zap.Stringer("kind", kind), zap.String("stage", stage))
}

func (r *run) finish(err error) (*Result, error) {
	if err != nil {
		r.log.Debug("quad failed", zap.Error(err))
		return nil, err
	}
	r.log.Debug("quad done",
		zap.Int("nodes", len(r.res.Nodes)),
		zap.Int("warnings", len(r.res.Warnings)),
		zap.String("fastpath", r.res.FastPath))

	return r.res, nil
}

// pipeline runs the general steepest-descent construction.
func (r *run) pipeline() error {
	var (
		a     phase.Analysis
		cov   cover.Covering
		ctrs  contour.Contours
		graph *pathgraph.Graph
		route pathgraph.Route
		kept  pathfilter.Result
	)
	pts, _ := pathgraph.FinitePoints(r.ends)
	workers := runtime.GOMAXPROCS(0)

	err := r.stage(StageAnalysis, func() (err error) {
		a, err = r.analyze()
		return err
	})
	if err != nil {
		return err
	}
	r.log.Debug("analysis", zap.Int("stationary", len(a.Stationary)), zap.Int("valleys", len(a.Valleys)),
		zap.Float64("noReturn", a.NoReturn))

	err = r.stage(StageCover, func() (err error) {
		cov, err = cover.Cover(r.ctx, a, pts, r.opts.coverConfig(), r.opts.searcher())
		return err
	})
	if err != nil {
		return fmt.Errorf("pathfinder: cover: %w", err)
	}
	if cov.Fallbacks > 0 {
		r.warn(WarnRayFallback, StageCover, "%d rays fell back to the maximal radius", cov.Fallbacks)
	}

	err = r.stage(StageContours, func() (err error) {
		ctrs, err = contour.Build(r.ctx, a, cov, pts, r.opts.contourConfig(workers))
		return err
	})
	if err != nil {
		return fmt.Errorf("pathfinder: contours: %w", err)
	}
	for _, d := range ctrs.Dropped {
		r.warn(WarnTraceDropped, StageContours, "trace from ball %d / endpoint %d dropped: %v", d.Ball, d.Endpoint, d.Err)
	}

	err = r.stage(StageGraph, func() (err error) {
		graph, err = pathgraph.Build(r.ends, a, cov, ctrs, r.opts.graphConfig())
		return err
	})
	if err != nil {
		return mapStageError(err)
	}

	err = r.stage(StagePath, func() (err error) {
		route, err = graph.ShortestPath()
		return err
	})
	if err != nil {
		return mapStageError(err)
	}
	r.log.Debug("route", zap.Int("pieces", len(route.Ingredients)), zap.Float64("cost", route.Cost))
	if route.Unresolved > 0 {
		r.warn(WarnUnresolvedChord, StagePath, "%d ball transit panels still fail the oscillation check", route.Unresolved)
	}

	err = r.stage(StageFilter, func() (err error) {
		kept, err = pathfilter.Filter(route, r.opts.ContourStartThresh)
		return err
	})
	if err != nil {
		return mapStageError(err)
	}
	if kept.OutOfRange {
		r.warn(WarnMagnitudeOutOfRange, StageFilter, "dominant magnitude %.3g outside [%g, %g]",
			kept.MaxVal, pathfilter.MinMagnitude, pathfilter.MaxMagnitude)
	}

	if err := r.quadrature(kept.Ingredients, StageQuadrature); err != nil {
		return err
	}

	if r.opts.Geometry {
		r.res.Geometry = &Geometry{
			Stationary: a.Stationary,
			Valleys:    a.Valleys,
			Balls:      cov.Balls,
			Segments:   ctrs.Segments,
			Route:      kept.Ingredients,
		}
	}

	return nil
}

// analyze runs the stationary point analysis. A linear phase (reachable
// only with WithoutFastPaths) has no stationary points and one valley.
func (r *run) analyze() (phase.Analysis, error) {
	if r.phi.Degree() == 1 {
		return phase.Analysis{
			Phase:    r.phi,
			Valleys:  phase.Valleys(r.phi),
			NoReturn: phase.NoReturnRadius(r.phi),
		}, nil
	}

	var popts []phase.Option
	if r.opts.StrictStationary {
		popts = append(popts, phase.WithStrictStationary())
	}
	a, err := phase.Analyze(r.phi, popts...)
	if err != nil {
		return phase.Analysis{}, mapStageError(err)
	}

	return a, nil
}

// quadrature places the nodes on the given pieces.
func (r *run) quadrature(pieces []pathgraph.Ingredient, stage string) error {
	var q quadrature.Result
	err := r.stage(stage, func() (err error) {
		q, err = quadrature.Build(r.ctx, r.phi, pieces, quadrature.Config{N: r.n, Parallel: r.opts.Accelerated})
		return err
	})
	if err != nil {
		return fmt.Errorf("pathfinder: quadrature: %w", err)
	}
	for _, f := range q.Failures {
		r.warn(WarnRootFindFailure, stage, "piece %d node %d (p=%.6g): kept continued estimate", f.Piece, f.Node, f.P)
	}
	r.res.Nodes, r.res.Weights = q.Nodes, q.Weights

	return nil
}

// mapStageError wraps stage sentinels into the package taxonomy.
func mapStageError(err error) error {
	switch {
	case errors.Is(err, phase.ErrDegenerateStationaryPoint),
		errors.Is(err, pathgraph.ErrBadEndpoint):
		return fmt.Errorf("%w: %w", ErrDegenerateInput, err)
	case errors.Is(err, pathgraph.ErrNoPath):
		return fmt.Errorf("%w: %w", ErrNoPath, err)
	case errors.Is(err, pathfilter.ErrInfiniteIntegral):
		return fmt.Errorf("%w: %w", ErrInfiniteIntegral, err)
	default:
		return fmt.Errorf("pathfinder: %w", err)
	}
}
