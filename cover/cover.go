// SPDX-License-Identifier: MIT

package cover

import (
	"context"
	"fmt"
	"math/cmplx"

	"github.com/katalvlaran/pathfinder/bfs"
	"github.com/katalvlaran/pathfinder/core"
	"github.com/katalvlaran/pathfinder/phase"
)

// Cover builds, merges and freezes the balls for an analysed phase.
//
// Implementation:
//   - Stage 1: one seed per stationary point (fallback r* + |ξ|).
//   - Stage 2: with InteriorBalls, one seed per finite endpoint, expanded with
//     the first non-vanishing Taylor coefficient of Φ at the endpoint.
//   - Stage 3: radius search per seed through the given searcher.
//   - Stage 4: merge to a fixed point; compute ownership maps.
//
// endpoints holds the finite endpoints (nil entries are not allowed; pass
// only finite ones and keep their indices via the slice position).
//
// Errors:
//   - ErrBadConfig for an invalid cfg.
//   - ctx.Err() if the context is cancelled during the search.
func Cover(ctx context.Context, a phase.Analysis, endpoints []complex128, cfg Config, searcher RadiusSearcher) (Covering, error) {
	if err := cfg.Validate(); err != nil {
		return Covering{}, err
	}
	if searcher == nil {
		searcher = SerialSearcher{}
	}

	phi := a.Phase
	var balls []Ball
	fallbacks := 0

	for i, sp := range a.Stationary {
		seed := Seed{
			Z:           sp.Z,
			Order:       sp.Order,
			Coefficient: sp.Coefficient,
			Fallback:    a.NoReturn + cmplx.Abs(sp.Z),
		}
		r, err := searcher.Radius(ctx, phi, seed, cfg)
		if err != nil {
			return Covering{}, fmt.Errorf("cover: stationary point %d: %w", i, err)
		}
		fallbacks += r.Fallbacks
		balls = append(balls, Ball{Center: sp.Z, Radius: r.R, Members: []int{i}})
	}

	if cfg.InteriorBalls {
		for e, z := range endpoints {
			seed, ok := endpointSeed(phi, z, a.NoReturn)
			if !ok {
				continue
			}
			r, err := searcher.Radius(ctx, phi, seed, cfg)
			if err != nil {
				return Covering{}, fmt.Errorf("cover: endpoint %d: %w", e, err)
			}
			fallbacks += r.Fallbacks
			balls = append(balls, Ball{Center: z, Radius: r.R, Endpoints: []int{e}})
		}
	}

	balls = Merge(balls, cfg.MergeThresh)

	cov := Covering{
		Balls:         balls,
		Owner:         make([]int, len(a.Stationary)),
		EndpointOwner: make([]int, len(endpoints)),
		Fallbacks:     fallbacks,
	}
	for bi, b := range balls {
		for _, m := range b.Members {
			cov.Owner[m] = bi
		}
	}
	for e, z := range endpoints {
		cov.EndpointOwner[e] = cov.BallAt(z)
	}

	return cov, nil
}

// endpointSeed expands Φ at a finite endpoint.
func endpointSeed(phi phase.Polynomial, z complex128, noReturn float64) (Seed, bool) {
	t := phi.Taylor(z)
	for q := 1; q < len(t); q++ {
		if t[q] != 0 {
			return Seed{Z: z, Order: q, Coefficient: t[q], Fallback: noReturn + cmplx.Abs(z)}, true
		}
	}

	return Seed{}, false
}

// Merge coalesces balls whose boundary gap is below thresh. Each round
// clusters the overlap graph into connected components and replaces every
// component by the smallest ball enclosing its members, in index order;
// rounds repeat until no two balls are closer than thresh. Member lists are
// concatenated in order. The input slice is not modified.
func Merge(balls []Ball, thresh float64) []Ball {
	out := make([]Ball, len(balls))
	copy(out, balls)

	for {
		g := core.NewGraph(core.WithDirected(false))
		g.AddVertices(len(out))
		near := false
		for i := range out {
			for j := i + 1; j < len(out); j++ {
				if out[i].Gap(out[j]) < thresh {
					_, _ = g.AddEdge(i, j, 0, 0)
					near = true
				}
			}
		}
		if !near {
			return out
		}

		// Components cannot fail on a non-nil graph.
		comps, _ := bfs.Components(g)
		next := make([]Ball, 0, len(comps))
		for _, comp := range comps {
			b := out[comp[0]]
			for _, j := range comp[1:] {
				b = union(b, out[j])
			}
			next = append(next, b)
		}
		out = next
	}
}

// union returns the smallest ball containing a and b.
func union(a, b Ball) Ball {
	members := append(append([]int(nil), a.Members...), b.Members...)
	ends := append(append([]int(nil), a.Endpoints...), b.Endpoints...)
	d := cmplx.Abs(b.Center - a.Center)

	switch {
	case d+b.Radius <= a.Radius:
		return Ball{Center: a.Center, Radius: a.Radius, Members: members, Endpoints: ends}
	case d+a.Radius <= b.Radius:
		return Ball{Center: b.Center, Radius: b.Radius, Members: members, Endpoints: ends}
	}

	r := (d + a.Radius + b.Radius) / 2
	c := a.Center + complex((r-a.Radius)/d, 0)*(b.Center-a.Center)

	return Ball{Center: c, Radius: r, Members: members, Endpoints: ends}
}
