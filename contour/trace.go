// SPDX-License-Identifier: MIT

package contour

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/katalvlaran/pathfinder/cover"
	"github.com/katalvlaran/pathfinder/phase"
	"github.com/katalvlaran/pathfinder/rootfind"
)

// Tracer follows steepest-descent paths of Φ through a frozen covering.
type Tracer struct {
	Phase   phase.Polynomial
	Valleys []phase.Valley
	Balls   []cover.Ball

	// NoReturn is the radius past which a path may be committed to a
	// valley: the one whose inner half-sector contains arg z, or, once p
	// exceeds PMax, the nearest one.
	NoReturn float64

	// Scale is the base step length (a fraction of the smallest ball).
	Scale float64

	PMax     float64
	MaxSteps int
}

// Trace follows the steepest-descent path Φ(z(p)) = Φ(z0) + i·p from z0,
// ignoring ball exclude (−1 for none).
//
// Implementation:
//   - Stage 1: Euler predictor Δz = i·Δp/Φ'(z) with |Δz| ≈ the step length.
//   - Stage 2: Halley corrector against Φ(z0) (Newton if Halley fails); the
//     step is halved when both fail or the corrector jumps away from the
//     prediction.
//   - Stage 3: stop conditions, in order: entering a foreign ball (the
//     boundary is located by bisection in p), |z| > NoReturn inside the
//     inner half of a valley sector, |z| > NoReturn with p > PMax.
//
// Errors:
//   - ErrTraceFailed on a vanishing Φ', an uncorrectable step, or when
//     MaxSteps is exhausted.
func (t Tracer) Trace(z0 complex128, exclude int) (Segment, error) {
	seg := Segment{
		Kind:         SteepestDescent,
		Start:        z0,
		Valley:       -1,
		FromBall:     exclude,
		ToBall:       -1,
		FromEndpoint: -1,
		Trace:        []Point{{P: 0, Z: z0}},
		Step:         t.Scale,
	}
	phi0 := t.Phase.Eval(z0)

	z, p := z0, 0.0
	for step := 0; step < t.MaxSteps; step++ {
		_, d1, _ := t.Phase.Derivs(z)
		if d1 == 0 {
			return seg, fmt.Errorf("%w: Φ' vanishes at %v", ErrTraceFailed, z)
		}
		dp := t.stepLength(z, exclude) * cmplx.Abs(d1)

		zn, pn, ok := advance(t.Phase, z0, phi0, z, p, dp)
		if !ok {
			return seg, fmt.Errorf("%w: corrector failed at p=%g z=%v", ErrTraceFailed, p, z)
		}

		if b := t.enteredBall(zn, exclude); b >= 0 {
			pb, zb := t.boundary(z0, phi0, z, p, zn, pn, b)
			seg.add(pb, zb)
			seg.End, seg.PEnd, seg.ToBall = zb, pb, b
			return seg, nil
		}

		seg.add(pn, zn)
		z, p = zn, pn

		// arg z only identifies the valley once the leading term dominates.
		if cmplx.Abs(z) > t.NoReturn {
			v, ok := t.committed(z)
			if !ok && p > t.PMax {
				v, ok = phase.NearestValley(t.Valleys, cmplx.Phase(z)), true
			}
			if ok {
				seg.finish(v)
				return seg, nil
			}
		}
	}

	return seg, fmt.Errorf("%w: %d steps from %v", ErrTraceFailed, t.MaxSteps, z0)
}

func (s *Segment) add(p float64, z complex128) {
	s.ArcLength += abs(z - s.Trace[len(s.Trace)-1].Z)
	s.Trace = append(s.Trace, Point{P: p, Z: z})
}

func (s *Segment) finish(valley int) {
	last := s.Trace[len(s.Trace)-1]
	s.End, s.PEnd, s.Valley = last.Z, math.Inf(1), valley
}

// stepLength is the target |Δz| at z: proportional to |z| far out, never
// more than half the gap to a foreign ball.
func (t Tracer) stepLength(z complex128, exclude int) float64 {
	L := math.Max(t.Scale, stepFraction*cmplx.Abs(z))
	for i, b := range t.Balls {
		if i == exclude {
			continue
		}
		if gap := cmplx.Abs(z-b.Center) - b.Radius; gap > 0 {
			L = math.Min(L, math.Max(gap/2, t.Scale/10))
		}
	}

	return L
}

func (t Tracer) enteredBall(z complex128, exclude int) int {
	for i, b := range t.Balls {
		if i != exclude && b.Contains(z) {
			return i
		}
	}

	return -1
}

// committed reports the valley whose inner half-sector contains arg z.
func (t Tracer) committed(z complex128) (int, bool) {
	theta := cmplx.Phase(z)
	for _, v := range t.Valleys {
		if math.Abs(phase.WrapAngle(theta-v.Angle)) < v.HalfWidth/2 {
			return v.Index, true
		}
	}

	return -1, false
}

// boundary bisects p ∈ (pout, pin] for the first point inside ball b.
func (t Tracer) boundary(z0, phi0, zout complex128, pout float64, zin complex128, pin float64, b int) (float64, complex128) {
	ball := t.Balls[b]
	for i := 0; i < bisectionSteps; i++ {
		mid := (pout + pin) / 2
		zm, ok := correct(t.Phase, z0, phi0, zout, pout, mid)
		if !ok {
			_, d1, _ := t.Phase.Derivs(zout)
			zm = zout + complex(0, mid-pout)/d1
		}
		if ball.Contains(zm) {
			zin, pin = zm, mid
		} else {
			zout, pout = zm, mid
		}
	}

	return pin, zin
}

// advance performs one predictor-corrector step of size dp from (z, p),
// halving dp until the corrector lands near the prediction.
func advance(phi phase.Polynomial, z0, phi0, z complex128, p, dp float64) (complex128, float64, bool) {
	_, d1, _ := phi.Derivs(z)
	for h := 0; h < maxHalvings; h++ {
		guess := z + complex(0, dp)/d1
		zn, ok := refine(phi, z0, phi0, p+dp, guess)
		if ok && abs(zn-guess) <= 0.5*abs(guess-z) {
			return zn, p + dp, true
		}
		dp /= 2
	}

	return 0, p, false
}

// correct solves for z(p) starting from the Euler step off (z, pz).
func correct(phi phase.Polynomial, z0, phi0, z complex128, pz, p float64) (complex128, bool) {
	_, d1, _ := phi.Derivs(z)
	if d1 == 0 {
		return 0, false
	}

	return refine(phi, z0, phi0, p, z+complex(0, p-pz)/d1)
}

// refine runs Halley, then Newton, on Φ(x) = Φ(z0) + i·p.
func refine(phi phase.Polynomial, z0, phi0 complex128, p float64, guess complex128) (complex128, bool) {
	tol := tolerance(phi, phi0, p, guess)
	if x, ok := rootfind.Halley(phi, z0, p, 1, guess, tol); ok {
		return x, true
	}

	return rootfind.Newton(phi, z0, p, 1, guess, tol)
}

// tolerance is the residual threshold for z(p): relative to the size of the
// target value, floored by the rounding level of evaluating Φ near z.
func tolerance(phi phase.Polynomial, phi0 complex128, p float64, z complex128) float64 {
	return relTol*(1+cmplx.Abs(phi0)+p) + roundoff*phi.Bound(z)
}

// Locate returns z(p) on a steepest-descent segment: it continues from the
// nearest trace sample with Euler predictor-corrector substeps and refines
// the final point with Halley. When the final refinement fails the
// Euler-continued estimate is returned with ok = false.
func (s Segment) Locate(phi phase.Polynomial, p float64) (z complex128, ok bool) {
	i := sort.Search(len(s.Trace), func(i int) bool { return s.Trace[i].P > p }) - 1
	if i < 0 {
		i = 0
	}
	z, q := s.Trace[i].Z, s.Trace[i].P
	if q == p {
		return z, true
	}
	phi0 := phi.Eval(s.Start)
	step := s.Step
	if !(step > 0) {
		step = abs(s.End-s.Start) / 64
	}

	for sub := 0; p-q > 0 && sub < DefaultMaxSteps; sub++ {
		_, d1, _ := phi.Derivs(z)
		if d1 == 0 {
			return z, false
		}
		dp := math.Min(p-q, math.Max(step, stepFraction*cmplx.Abs(z))*cmplx.Abs(d1))
		guess := z + complex(0, dp)/d1
		q += dp
		if q >= p {
			q = p
		}
		zn, good := refine(phi, s.Start, phi0, q, guess)
		if !good {
			zn = guess
		}
		z, ok = zn, good
	}

	return z, ok && q == p
}

func abs(z complex128) float64 { return cmplx.Abs(z) }
