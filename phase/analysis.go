// SPDX-License-Identifier: MIT

package phase

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

// Analyze derives stationary points, valleys and r* from the scaled phase
// Φ = k·g.
//
// Implementation:
//   - Stage 1: validate degree ≥ 2.
//   - Stage 2: roots of Φ' (Roots), clustered under the merge tolerance.
//   - Stage 3: per cluster, the order q = multiplicity+1 and Taylor
//     coefficient c_q give the local descent directions.
//   - Stage 4: valleys at infinity and the no-return radius.
//
// Errors:
//   - ErrDegreeTooLow for degree < 2.
//   - ErrDegenerateStationaryPoint if a cluster has more than one root and
//     WithStrictStationary is set.
//   - ErrRootsNotConverged propagated from Roots.
func Analyze(phi Polynomial, opts ...Option) (Analysis, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if phi.Degree() < 2 {
		return Analysis{}, fmt.Errorf("%w: got degree %d", ErrDegreeTooLow, phi.Degree())
	}

	roots, err := Roots(phi.Derivative())
	if err != nil {
		return Analysis{}, err
	}

	scale := 1.0
	for _, r := range roots {
		scale = math.Max(scale, cmplx.Abs(r))
	}
	clusters := clusterRoots(roots, cfg.MergeTolerance*scale)

	points := make([]StationaryPoint, 0, len(clusters))
	for _, cl := range clusters {
		if cfg.Strict && len(cl) > 1 {
			return Analysis{}, fmt.Errorf("%w: %d roots of Φ' within %.3g of %v",
				ErrDegenerateStationaryPoint, len(cl), cfg.MergeTolerance*scale, cl[0])
		}
		var centre complex128
		for _, r := range cl {
			centre += r
		}
		centre /= complex(float64(len(cl)), 0)
		points = append(points, newStationaryPoint(phi, centre, len(cl)))
	}
	sort.Slice(points, func(i, j int) bool {
		if real(points[i].Z) != real(points[j].Z) {
			return real(points[i].Z) < real(points[j].Z)
		}
		return imag(points[i].Z) < imag(points[j].Z)
	})

	return Analysis{
		Phase:      phi,
		Stationary: points,
		Valleys:    Valleys(phi),
		NoReturn:   NoReturnRadius(phi),
	}, nil
}

// newStationaryPoint classifies a (possibly merged) root of Φ'.
func newStationaryPoint(phi Polynomial, z complex128, multiplicity int) StationaryPoint {
	t := phi.Taylor(z)
	q := multiplicity + 1
	if q > phi.Degree() {
		q = phi.Degree()
	}
	// A numerically merged cluster can leave a tiny c_q; walk up to the first
	// coefficient that is not negligible against the leading one.
	lead := cmplx.Abs(phi.Leading())
	for q < phi.Degree() && cmplx.Abs(t[q]) <= 1e-12*lead {
		q++
	}

	return StationaryPoint{
		Z:            z,
		Order:        q,
		Multiplicity: multiplicity,
		Coefficient:  t[q],
		Directions:   descentAngles(t[q], q),
	}
}

// descentAngles returns θ_m = (π/2 − arg c + 2πm)/q normalised into (−π, π].
func descentAngles(c complex128, q int) []float64 {
	out := make([]float64, q)
	for m := 0; m < q; m++ {
		out[m] = WrapAngle((math.Pi/2 - cmplx.Phase(c) + 2*math.Pi*float64(m)) / float64(q))
	}

	return out
}

// Valleys returns the valleys at infinity of phi (degree J ≥ 1). Constants
// have none.
func Valleys(phi Polynomial) []Valley {
	J := phi.Degree()
	if J < 1 {
		return nil
	}
	angles := descentAngles(phi.Leading(), J)
	out := make([]Valley, J)
	for m, a := range angles {
		out[m] = Valley{Index: m, Angle: a, HalfWidth: math.Pi / (2 * float64(J))}
	}

	return out
}

// ValleyOf returns the index of the valley whose open sector contains the
// direction theta.
func (a Analysis) ValleyOf(theta float64) (int, bool) {
	return ValleyOf(a.Valleys, theta)
}

// ValleyOf returns the index of the valley whose open sector contains theta.
func ValleyOf(valleys []Valley, theta float64) (int, bool) {
	for _, v := range valleys {
		if math.Abs(WrapAngle(theta-v.Angle)) < v.HalfWidth {
			return v.Index, true
		}
	}

	return -1, false
}

// NearestValley returns the valley whose centre is closest to theta.
func NearestValley(valleys []Valley, theta float64) int {
	best, bestDist := -1, math.Inf(1)
	for _, v := range valleys {
		if d := math.Abs(WrapAngle(theta - v.Angle)); d < bestDist {
			best, bestDist = v.Index, d
		}
	}

	return best
}

// NoReturnRadius returns r* ≥ 1 such that for |z| ≥ r* every lower-order
// term obeys J·|c_j|·|z|^j ≤ |c_J|·|z|^J / 2.
func NoReturnRadius(phi Polynomial) float64 {
	J := phi.Degree()
	r := 1.0
	if J < 1 {
		return r
	}
	lead := cmplx.Abs(phi.Leading())
	for j := 0; j < J; j++ {
		cj := cmplx.Abs(phi.Coeff(j))
		if cj == 0 {
			continue
		}
		r = math.Max(r, math.Pow(2*float64(J)*cj/lead, 1/float64(J-j)))
	}

	return r
}

// WrapAngle maps theta into (−π, π].
func WrapAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta <= -math.Pi {
		theta += 2 * math.Pi
	} else if theta > math.Pi {
		theta -= 2 * math.Pi
	}

	return theta
}

// clusterRoots groups roots closer than tol (single linkage). Output order
// follows the first member of each cluster.
func clusterRoots(roots []complex128, tol float64) [][]complex128 {
	parent := make([]int, len(roots))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for i := range roots {
		for j := i + 1; j < len(roots); j++ {
			if cmplx.Abs(roots[i]-roots[j]) < tol {
				parent[find(j)] = find(i)
			}
		}
	}

	index := make(map[int]int)
	var out [][]complex128
	for i, r := range roots {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(out)
			index[root] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], r)
	}

	return out
}
