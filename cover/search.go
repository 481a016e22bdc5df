// SPDX-License-Identifier: MIT

package cover

import (
	"context"
	"math"
	"math/cmplx"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pathfinder/phase"
	"github.com/katalvlaran/pathfinder/rootfind"
)

// Radius is the outcome of one ball radius search.
type Radius struct {
	R         float64
	Fallbacks int // rays that hit MaxRaySteps
}

// RadiusSearcher computes the ball radius around one seed. Implementations
// must be numerically identical; they differ only in scheduling.
type RadiusSearcher interface {
	Radius(ctx context.Context, phi phase.Polynomial, seed Seed, cfg Config) (Radius, error)
}

// SerialSearcher is the portable implementation.
type SerialSearcher struct{}

// Radius implements RadiusSearcher.
func (SerialSearcher) Radius(ctx context.Context, phi phase.Polynomial, seed Seed, cfg Config) (Radius, error) {
	rays := make([]rayResult, cfg.NumRays)
	for j := range rays {
		if err := ctx.Err(); err != nil {
			return Radius{}, err
		}
		rays[j] = searchRay(phi, seed, rayAngle(j, cfg.NumRays), cfg)
	}

	return reduce(rays, cfg.TakeMax), nil
}

// ParallelSearcher fans the rays out over at most Limit goroutines
// (GOMAXPROCS when Limit ≤ 0).
type ParallelSearcher struct {
	Limit int
}

// Radius implements RadiusSearcher.
func (s ParallelSearcher) Radius(ctx context.Context, phi phase.Polynomial, seed Seed, cfg Config) (Radius, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	rays := make([]rayResult, cfg.NumRays)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for j := range rays {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rays[j] = searchRay(phi, seed, rayAngle(j, cfg.NumRays), cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Radius{}, err
	}

	return reduce(rays, cfg.TakeMax), nil
}

// rayResult is the crossing radius along one ray.
type rayResult struct {
	r        float64
	fellBack bool
}

func rayAngle(j, n int) float64 { return 2 * math.Pi * float64(j) / float64(n) }

// Scale returns the characteristic radius r₀ = (2π·NumOscs/|c_q|)^{1/q} of a
// seed, the distance at which the local term alone reaches the threshold.
func Scale(seed Seed, cfg Config) float64 {
	guess := rootfind.InitialGuess(seed.Z, seed.Coefficient, seed.Order, 2*math.Pi*cfg.NumOscs, 1, 0)

	return cmplx.Abs(guess - seed.Z)
}

// searchRay marches outward from the seed and bisects the first crossing.
func searchRay(phi phase.Polynomial, seed Seed, theta float64, cfg Config) rayResult {
	limit := 2 * math.Pi * cfg.NumOscs
	phi0 := phi.Eval(seed.Z)
	dir := cmplx.Rect(1, theta)
	crossed := func(r float64) bool {
		d := phi.Eval(seed.Z+complex(r, 0)*dir) - phi0
		return cmplx.Abs(d) >= limit || imag(d) >= cfg.ImagThresh
	}

	h := Scale(seed, cfg) / stepsPerScale
	if !(h > 0) || math.IsInf(h, 0) {
		return rayResult{r: seed.Fallback, fellBack: true}
	}

	lo := 0.0
	for step := 1; step <= cfg.MaxRaySteps; step++ {
		hi := float64(step) * h
		if hi >= seed.Fallback && seed.Fallback > 0 {
			break
		}
		if !crossed(hi) {
			lo = hi
			continue
		}
		for i := 0; i < bisectionSteps; i++ {
			mid := (lo + hi) / 2
			if crossed(mid) {
				hi = mid
			} else {
				lo = mid
			}
		}
		return rayResult{r: hi}
	}

	return rayResult{r: seed.Fallback, fellBack: true}
}

// reduce combines the per-ray radii in index order.
func reduce(rays []rayResult, takeMax bool) Radius {
	var out Radius
	var sum float64
	for _, ray := range rays {
		if ray.fellBack {
			out.Fallbacks++
		}
		out.R = math.Max(out.R, ray.r)
		sum += ray.r
	}
	if !takeMax && len(rays) > 0 {
		out.R = sum / float64(len(rays))
	}

	return out
}
