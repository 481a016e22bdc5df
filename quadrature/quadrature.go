// SPDX-License-Identifier: MIT

package quadrature

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pathfinder/contour"
	"github.com/katalvlaran/pathfinder/pathgraph"
	"github.com/katalvlaran/pathfinder/phase"
	"github.com/katalvlaran/pathfinder/quadrule"
)

// Sentinel errors for the quadrature package.
var (
	// ErrBadPointCount indicates a non-positive number of nodes per piece.
	ErrBadPointCount = errors.New("quadrature: points per piece must be positive")
)

// tailCutoff: a finite SD piece whose end magnitude e^{−PEnd} is below this
// is integrated as if it ran to its valley.
const tailCutoff = 1e-16

// Config configures Build.
type Config struct {
	N int // nodes per piece

	// Parallel refines pieces concurrently on at most Workers goroutines
	// (GOMAXPROCS when Workers ≤ 0).
	Parallel bool
	Workers  int
}

// Failure records a node whose root refinement failed; the Euler-continued
// estimate was used in its place.
type Failure struct {
	Piece int // index into the ingredients passed to Build
	Node  int // node index within the piece
	P     float64
}

// Result holds the concatenated nodes and weights.
type Result struct {
	Nodes    []complex128
	Weights  []complex128
	Failures []Failure
}

// Build places cfg.N nodes on every ingredient and concatenates them in
// ingredient order.
//
// Implementation:
//   - Straight pieces: Gauss–Legendre on the chord, w = W·(z₂−z₁)/2·exp(iΦ).
//   - SD pieces to a valley, or with a negligible tail past the largest
//     Laguerre node: Gauss–Laguerre in p with the e^{−p} weight absorbed.
//   - Other SD pieces: Gauss–Legendre on [0, PEnd].
//   - SD node z = h(p) via Segment.Locate; weight W·h′(p)·exp(iΦ(z)) with
//     h′ = i/Φ′(z).
//   - Reversed pieces negate their weights.
//
// Errors:
//   - ErrBadPointCount for cfg.N ≤ 0.
//   - quadrule errors, ctx.Err() on cancellation.
func Build(ctx context.Context, phi phase.Polynomial, ingredients []pathgraph.Ingredient, cfg Config) (Result, error) {
	if cfg.N <= 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrBadPointCount, cfg.N)
	}
	legendre, err := quadrule.Legendre(cfg.N)
	if err != nil {
		return Result{}, err
	}
	laguerre, err := quadrule.Laguerre(cfg.N)
	if err != nil {
		return Result{}, err
	}

	b := builder{phi: phi, legendre: legendre, laguerre: laguerre}
	pieces := make([]piece, len(ingredients))

	run := func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		pieces[i] = b.piece(i, ingredients[i])
		return nil
	}

	if !cfg.Parallel {
		for i := range ingredients {
			if err := run(i); err != nil {
				return Result{}, err
			}
		}
	} else {
		limit := cfg.Workers
		if limit <= 0 {
			limit = runtime.GOMAXPROCS(0)
		}
		var g errgroup.Group
		g.SetLimit(limit)
		for i := range ingredients {
			i := i
			g.Go(func() error { return run(i) })
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	}

	res := Result{
		Nodes:   make([]complex128, 0, cfg.N*len(pieces)),
		Weights: make([]complex128, 0, cfg.N*len(pieces)),
	}
	for _, p := range pieces {
		res.Nodes = append(res.Nodes, p.nodes...)
		res.Weights = append(res.Weights, p.weights...)
		res.Failures = append(res.Failures, p.failures...)
	}

	return res, nil
}

// piece is the output of one ingredient.
type piece struct {
	nodes    []complex128
	weights  []complex128
	failures []Failure
}

type builder struct {
	phi      phase.Polynomial
	legendre quadrule.Rule
	laguerre quadrule.Rule
}

func (b builder) piece(i int, in pathgraph.Ingredient) piece {
	var out piece
	switch in.Segment.Kind {
	case contour.Straight:
		out = b.straight(in.Segment)
	default:
		out = b.descent(i, in.Segment)
	}
	if in.Reverse {
		for j := range out.weights {
			out.weights[j] = -out.weights[j]
		}
	}

	return out
}

func (b builder) straight(s contour.Segment) piece {
	n := b.legendre.Len()
	out := piece{nodes: make([]complex128, n), weights: make([]complex128, n)}
	half := (s.End - s.Start) / 2
	mid := (s.End + s.Start) / 2
	for j, x := range b.legendre.X {
		z := mid + complex(x, 0)*half
		out.nodes[j] = z
		out.weights[j] = complex(b.legendre.W[j], 0) * half * cmplx.Exp(1i*b.phi.Eval(z))
	}

	return out
}

func (b builder) descent(i int, s contour.Segment) piece {
	rule, laguerre := b.descentRule(s)
	n := rule.Len()
	out := piece{nodes: make([]complex128, n), weights: make([]complex128, n)}

	for j, p := range rule.X {
		z, ok := s.Locate(b.phi, p)
		if !ok {
			out.failures = append(out.failures, Failure{Piece: i, Node: j, P: p})
		}
		f, d1, _ := b.phi.Derivs(z)
		out.nodes[j] = z
		if d1 == 0 {
			if ok {
				out.failures = append(out.failures, Failure{Piece: i, Node: j, P: p})
			}
			continue
		}
		e := 1i * f
		if laguerre {
			e += complex(p, 0)
		}
		out.weights[j] = complex(rule.W[j], 0) * (1i / d1) * cmplx.Exp(e)
	}

	return out
}

// descentRule picks the rule in p for an SD piece and reports whether it is
// the Laguerre rule.
func (b builder) descentRule(s contour.Segment) (quadrule.Rule, bool) {
	if s.ToValley() || (math.Exp(-s.PEnd) < tailCutoff && s.PEnd > b.laguerre.MaxNode()) {
		return b.laguerre, true
	}

	return b.legendre.Mapped(0, s.PEnd), false
}
