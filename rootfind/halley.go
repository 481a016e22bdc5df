// SPDX-License-Identifier: MIT

package rootfind

import (
	"math"
	"math/cmplx"
)

// MaxIterations caps Halley's iteration.
const MaxIterations = 30

// Function is a holomorphic function with its first two derivatives.
// phase.Polynomial satisfies it.
type Function interface {
	Derivs(z complex128) (f, df, d2f complex128)
}

// Residual returns F(x) = Φ(x) − Φ(ξ) − i·p^r.
func Residual(phi Function, xi complex128, p, r float64, x complex128) complex128 {
	fx, _, _ := phi.Derivs(x)
	fxi, _, _ := phi.Derivs(xi)

	return fx - fxi - complex(0, math.Pow(p, r))
}

// Halley solves Φ(x) − Φ(ξ) = i·p^r starting from x0.
//
// Returns (x, true) once |F(x)| < thresh. Returns (0, false) when:
//   - MaxIterations are exhausted,
//   - F′ vanishes or the Halley denominator is zero,
//   - an iterate becomes NaN/Inf.
//
// Pure function: safe for concurrent use on disjoint inputs.
func Halley(phi Function, xi complex128, p, r float64, x0 complex128, thresh float64) (complex128, bool) {
	fxi, _, _ := phi.Derivs(xi)
	target := fxi + complex(0, math.Pow(p, r))

	x := x0
	for it := 0; it < MaxIterations; it++ {
		f, df, d2f := phi.Derivs(x)
		F := f - target
		if cmplx.Abs(F) < thresh {
			return x, true
		}
		if df == 0 {
			return 0, false
		}
		den := 2*df*df - F*d2f
		if den == 0 {
			return 0, false
		}
		x -= 2 * F * df / den
		if math.IsNaN(real(x)) || math.IsNaN(imag(x)) || cmplx.IsInf(x) {
			return 0, false
		}
	}

	// Accept a final iterate that converged on the last step.
	f, _, _ := phi.Derivs(x)
	if cmplx.Abs(f-target) < thresh {
		return x, true
	}

	return 0, false
}

// Newton is the second-order companion of Halley, used where F″ is not
// trustworthy (e.g. on the first step away from a saddle). Same contract.
func Newton(phi Function, xi complex128, p, r float64, x0 complex128, thresh float64) (complex128, bool) {
	fxi, _, _ := phi.Derivs(xi)
	target := fxi + complex(0, math.Pow(p, r))

	x := x0
	for it := 0; it < MaxIterations; it++ {
		f, df, _ := phi.Derivs(x)
		F := f - target
		if cmplx.Abs(F) < thresh {
			return x, true
		}
		if df == 0 {
			return 0, false
		}
		x -= F / df
		if math.IsNaN(real(x)) || math.IsNaN(imag(x)) || cmplx.IsInf(x) {
			return 0, false
		}
	}

	return 0, false
}

// InitialGuess returns the leading-order solution near a stationary point of
// order q with Taylor coefficient c: x ≈ ξ + (i·p^r / c)^{1/q}, taking the
// branch closest to the descent direction theta.
func InitialGuess(xi complex128, c complex128, q int, p, r, theta float64) complex128 {
	rho := math.Pow(math.Pow(p, r)/cmplx.Abs(c), 1/float64(q))

	return xi + cmplx.Rect(rho, theta)
}
