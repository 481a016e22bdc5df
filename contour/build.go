// SPDX-License-Identifier: MIT

package contour

import (
	"context"
	"math"
	"math/cmplx"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pathfinder/cover"
	"github.com/katalvlaran/pathfinder/phase"
)

// Exits returns the points on the boundary of b where Im Φ has a local
// maximum and the steepest-descent direction i/Φ' points outward, in
// increasing boundary angle from −π.
func Exits(phi phase.Polynomial, b cover.Ball, samples int) []complex128 {
	at := func(theta float64) complex128 { return b.Center + cmplx.Rect(b.Radius, theta) }
	height := func(theta float64) float64 { return imag(phi.Eval(at(theta))) }

	h := 2 * math.Pi / float64(samples)
	vals := make([]float64, samples)
	for j := range vals {
		vals[j] = height(-math.Pi + float64(j)*h)
	}

	var out []complex128
	for j := range vals {
		prev, next := vals[(j+samples-1)%samples], vals[(j+1)%samples]
		if !(vals[j] > prev && vals[j] >= next) {
			continue
		}
		theta := goldenMax(height, -math.Pi+float64(j-1)*h, -math.Pi+float64(j+1)*h)
		z := at(theta)
		_, d1, _ := phi.Derivs(z)
		if d1 == 0 {
			continue
		}
		dir := complex(0, 1) / d1
		if real(dir*cmplx.Conj(z-b.Center)) > 0 {
			out = append(out, z)
		}
	}

	return out
}

// goldenMax maximises f on [lo, hi] by golden-section search.
func goldenMax(f func(float64) float64, lo, hi float64) float64 {
	const invPhi = 0.6180339887498949
	x1 := hi - invPhi*(hi-lo)
	x2 := lo + invPhi*(hi-lo)
	f1, f2 := f(x1), f(x2)
	for i := 0; i < goldenSteps; i++ {
		if f1 < f2 {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = f(x2)
		} else {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = f(x1)
		}
	}

	return (lo + hi) / 2
}

// Build traces every steepest-descent segment of the covering.
//
// Implementation:
//   - Stage 1: exits of every ball (Exits) become traces excluding their own ball.
//   - Stage 2: every finite endpoint not strictly inside a ball gets a
//     connector trace.
//   - Stage 3: traces run serially or, with cfg.Workers > 1, on an errgroup
//     writing into pre-indexed slots. Failed traces are reported in Dropped
//     and left out.
//
// endpoints must be the same finite endpoints the covering was built with.
//
// Errors:
//   - ErrBadConfig for an invalid cfg.
//   - ctx.Err() when cancelled.
func Build(ctx context.Context, a phase.Analysis, cov cover.Covering, endpoints []complex128, cfg Config) (Contours, error) {
	if err := cfg.Validate(); err != nil {
		return Contours{}, err
	}

	tr := newTracer(a, cov, endpoints, cfg)

	type job struct {
		z        complex128
		ball     int
		endpoint int
	}
	var jobs []job
	for bi, b := range cov.Balls {
		for _, z := range Exits(a.Phase, b, cfg.Samples) {
			jobs = append(jobs, job{z: z, ball: bi, endpoint: -1})
		}
	}
	for e, z := range endpoints {
		if e < len(cov.EndpointOwner) && cov.EndpointOwner[e] >= 0 {
			continue
		}
		jobs = append(jobs, job{z: z, ball: -1, endpoint: e})
	}

	segs := make([]Segment, len(jobs))
	errs := make([]error, len(jobs))
	run := func(i int) {
		j := jobs[i]
		segs[i], errs[i] = tr.Trace(j.z, j.ball)
		segs[i].FromEndpoint = j.endpoint
	}

	if cfg.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for i := range jobs {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				run(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Contours{}, err
		}
	} else {
		for i := range jobs {
			if err := ctx.Err(); err != nil {
				return Contours{}, err
			}
			run(i)
		}
	}

	out := Contours{NoReturn: tr.NoReturn}
	for i, seg := range segs {
		if errs[i] != nil {
			out.Dropped = append(out.Dropped, Drop{Ball: jobs[i].ball, Endpoint: jobs[i].endpoint, Err: errs[i]})
			continue
		}
		out.Segments = append(out.Segments, seg)
	}

	return out, nil
}

// newTracer derives the tracing geometry: the step scale is a tenth of the
// smallest ball, the no-return radius doubles the largest of r*, the ball
// extents and the endpoint moduli.
func newTracer(a phase.Analysis, cov cover.Covering, endpoints []complex128, cfg Config) Tracer {
	minR, far := math.Inf(1), a.NoReturn
	for _, b := range cov.Balls {
		minR = math.Min(minR, b.Radius)
		far = math.Max(far, cmplx.Abs(b.Center)+b.Radius)
	}
	for _, z := range endpoints {
		far = math.Max(far, cmplx.Abs(z))
	}
	if math.IsInf(minR, 1) {
		minR = far
	}

	return Tracer{
		Phase:    a.Phase,
		Valleys:  a.Valleys,
		Balls:    cov.Balls,
		NoReturn: 2 * far,
		Scale:    minR / 10,
		PMax:     cfg.PMax,
		MaxSteps: cfg.MaxSteps,
	}
}
