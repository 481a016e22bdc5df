// SPDX-License-Identifier: MIT

package phase

import (
	"fmt"
	"math"
	"math/cmplx"
)

const (
	// maxAberthSweeps bounds the simultaneous iteration.
	maxAberthSweeps = 500

	// aberthTol is the relative correction size at which a root is frozen.
	aberthTol = 1e-15

	// polishSteps is the number of Newton steps applied after Aberth.
	polishSteps = 3
)

// Roots returns all complex roots of p, with multiplicity.
//
// Implementation:
//   - Stage 1: trivial degrees (0 → none, 1 → closed form).
//   - Stage 2: Aberth–Ehrlich iteration in Gauss–Seidel form started from a
//     rotated circle around the root centroid, radius from the Cauchy bound.
//   - Stage 3: a short Newton polish where the derivative is not tiny.
//
// Repeated roots converge linearly to roughly sqrt(ε) accuracy; Analyze
// merges such clusters.
//
// Errors:
//   - ErrRootsNotConverged if an iterate becomes NaN/Inf.
//
// Complexity: O(maxAberthSweeps·n²) worst case.
func Roots(p Polynomial) ([]complex128, error) {
	n := p.Degree()
	switch n {
	case 0:
		return nil, nil
	case 1:
		return []complex128{-p.c[1] / p.c[0]}, nil
	}

	// Monic copy to keep magnitudes comparable.
	lead := p.c[0]
	monic := make([]complex128, n+1)
	for i, c := range p.c {
		monic[i] = c / lead
	}
	q := Polynomial{c: monic}

	// Cauchy bound on |root| and centroid −a₁/n.
	var bound float64
	for _, c := range monic[1:] {
		bound = math.Max(bound, cmplx.Abs(c))
	}
	bound++
	centroid := -monic[1] / complex(float64(n), 0)
	shifted := q.Taylor(centroid)
	radius := 0.0
	for j := 1; j <= n; j++ {
		// Fujiwara-style spread of the roots around the centroid.
		radius = math.Max(radius, math.Pow(cmplx.Abs(shifted[n-j]), 1/float64(j)))
	}
	if radius == 0 || math.IsNaN(radius) || radius > bound+cmplx.Abs(centroid) {
		radius = bound
	}

	z := make([]complex128, n)
	for k := range z {
		angle := 2*math.Pi*float64(k)/float64(n) + 0.4
		z[k] = centroid + complex(radius, 0)*cmplx.Exp(complex(0, angle))
	}

	frozen := make([]bool, n)
	for sweep := 0; sweep < maxAberthSweeps; sweep++ {
		active := 0
		for i := range z {
			if frozen[i] {
				continue
			}
			f, df, _ := q.Derivs(z[i])
			if f == 0 {
				frozen[i] = true
				continue
			}
			var sum complex128
			for j := range z {
				if j != i && z[i] != z[j] {
					sum += 1 / (z[i] - z[j])
				}
			}
			den := df - f*sum
			if den == 0 {
				// Nudge off an exact critical configuration.
				z[i] += complex(1e-8*(1+cmplx.Abs(z[i])), 0)
				active++
				continue
			}
			w := f / den
			z[i] -= w
			if isBad(z[i]) {
				return nil, fmt.Errorf("%w: sweep %d", ErrRootsNotConverged, sweep)
			}
			if cmplx.Abs(w) <= aberthTol*math.Max(1, cmplx.Abs(z[i])) {
				frozen[i] = true
				continue
			}
			active++
		}
		if active == 0 {
			break
		}
	}

	// Newton polish on well-conditioned roots only.
	for i := range z {
		for s := 0; s < polishSteps; s++ {
			f, df, _ := q.Derivs(z[i])
			if f == 0 || cmplx.Abs(df) < 1e-8 {
				break
			}
			step := f / df
			if isBad(step) || cmplx.Abs(step) > 1e-3*math.Max(1, cmplx.Abs(z[i])) {
				break
			}
			z[i] -= step
		}
	}

	return z, nil
}
