// SPDX-License-Identifier: MIT

package pathfinder

import (
	"fmt"
	"math/cmplx"

	"github.com/katalvlaran/pathfinder/contour"
	"github.com/katalvlaran/pathfinder/pathgraph"
	"github.com/katalvlaran/pathfinder/phase"
	"github.com/katalvlaran/pathfinder/quadrule"
)

// Names reported in Result.FastPath.
const (
	FastPathConstant = "constant"
	FastPathLinear   = "linear"
	FastPathDirect   = "direct"
)

// constant handles Φ ≡ Φ₀: Gauss–Legendre on the chord times exp(iΦ₀).
// The integral diverges with an infinite endpoint.
func (r *run) constant() error {
	for i, e := range r.ends {
		if e.Infinite {
			return fmt.Errorf("%w: constant phase with endpoint %d at infinity", ErrDegenerateInput, i)
		}
	}
	r.res.FastPath = FastPathConstant

	return r.chord()
}

// chord integrates along the straight segment a → b.
func (r *run) chord() error {
	piece := pathgraph.Ingredient{Segment: contour.NewStraight(r.ends[0].Z, r.ends[1].Z)}

	return r.quadrature([]pathgraph.Ingredient{piece}, StageFastPath)
}

// fastPath tries the linear closed form and the direct chord. done reports
// whether the result is complete.
func (r *run) fastPath() (done bool, err error) {
	if r.phi.Degree() == 1 {
		r.res.FastPath = FastPathLinear
		return true, r.linear()
	}

	a, b := r.ends[0], r.ends[1]
	if a.Infinite || b.Infinite {
		return false, nil
	}
	if !pathgraph.DirectCheck(r.phi, a.Z, b.Z, r.opts.NumOscs, r.opts.ImagThresh) {
		return false, nil
	}
	r.res.FastPath = FastPathDirect

	return true, r.chord()
}

// linear handles Φ(z) = c₁z + c₀. From a finite z₀ the steepest-descent
// path is the ray z(p) = z₀ + i·p/c₁ into the single valley, so
//
//	∫_{z₀}^{∞} f·exp(iΦ) dz = exp(iΦ(z₀))·(i/c₁)·∫₀^∞ f(z(p))·e^{−p} dp,
//
// a Gauss–Laguerre rule. The result is contribution(a) − contribution(b);
// two infinite endpoints in the valley give an empty result.
func (r *run) linear() error {
	valleys := phase.Valleys(r.phi)
	for i, e := range r.ends {
		if !e.Infinite {
			continue
		}
		if _, ok := phase.ValleyOf(valleys, e.Angle); !ok {
			return fmt.Errorf("%w: %w: endpoint %d angle %.6g", ErrDegenerateInput, pathgraph.ErrBadEndpoint, i, e.Angle)
		}
	}

	rule, err := quadrule.Laguerre(r.n)
	if err != nil {
		return fmt.Errorf("pathfinder: %w", err)
	}
	c1 := r.phi.Coeff(1)
	dir := 1i / c1
	for i, e := range r.ends {
		if e.Infinite {
			continue
		}
		sign := complex(1, 0)
		if i == 1 {
			sign = -1
		}
		scale := sign * dir * cmplx.Exp(1i*r.phi.Eval(e.Z))
		for j, p := range rule.X {
			r.res.Nodes = append(r.res.Nodes, e.Z+complex(p, 0)*dir)
			r.res.Weights = append(r.res.Weights, complex(rule.W[j], 0)*scale)
		}
	}

	return nil
}
