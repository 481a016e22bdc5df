// SPDX-License-Identifier: MIT

package quadrule

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for rule construction.
var (
	// ErrBadOrder indicates a non-positive number of points.
	ErrBadOrder = errors.New("quadrule: number of points must be positive")

	// ErrEigenFailed indicates that the Golub–Welsch eigenproblem failed.
	ErrEigenFailed = errors.New("quadrule: eigen decomposition failed")
)

// Rule is a real quadrature rule: Σ W[j]·f(X[j]).
type Rule struct {
	X []float64
	W []float64
}

// Len returns the number of points.
func (r Rule) Len() int { return len(r.X) }

// MaxNode returns the largest abscissa.
func (r Rule) MaxNode() float64 { return floats.Max(r.X) }

// Sum applies the rule to f.
func (r Rule) Sum(f func(float64) float64) float64 {
	var s float64
	for j, x := range r.X {
		s += r.W[j] * f(x)
	}

	return s
}

// Mapped returns the rule affinely mapped from [−1, 1] to [lo, hi].
// Only meaningful for Legendre rules.
func (r Rule) Mapped(lo, hi float64) Rule {
	half, mid := (hi-lo)/2, (hi+lo)/2
	out := Rule{X: make([]float64, len(r.X)), W: make([]float64, len(r.W))}
	for j := range r.X {
		out.X[j] = mid + half*r.X[j]
		out.W[j] = half * r.W[j]
	}

	return out
}

var (
	mu       sync.Mutex
	legendre = map[int]Rule{}
	laguerre = map[int]Rule{}
)

// Legendre returns the n-point Gauss–Legendre rule on [−1, 1], nodes ascending.
func Legendre(n int) (Rule, error) {
	if n <= 0 {
		return Rule{}, fmt.Errorf("%w: n=%d", ErrBadOrder, n)
	}
	mu.Lock()
	defer mu.Unlock()
	if r, ok := legendre[n]; ok {
		return r, nil
	}

	r := Rule{X: make([]float64, n), W: make([]float64, n)}
	quad.Legendre{}.FixedLocations(r.X, r.W, -1, 1)
	sortRule(r)
	legendre[n] = r

	return r, nil
}

// Laguerre returns the n-point Gauss–Laguerre rule for the weight e^{−p} on
// [0, ∞), nodes ascending.
//
// Implementation (Golub–Welsch):
//   - Stage 1: symmetric tridiagonal Jacobi matrix, diagonal 2j+1,
//     off-diagonal j+1.
//   - Stage 2: eigenvalues are the nodes.
//   - Stage 3: weights are μ₀·v₀ⱼ² with μ₀ = ∫₀^∞ e^{−p} dp = 1.
func Laguerre(n int) (Rule, error) {
	if n <= 0 {
		return Rule{}, fmt.Errorf("%w: n=%d", ErrBadOrder, n)
	}
	mu.Lock()
	defer mu.Unlock()
	if r, ok := laguerre[n]; ok {
		return r, nil
	}

	jac := mat.NewSymDense(n, nil)
	for j := 0; j < n; j++ {
		jac.SetSym(j, j, float64(2*j+1))
		if j+1 < n {
			jac.SetSym(j, j+1, float64(j+1))
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(jac, true); !ok {
		return Rule{}, fmt.Errorf("%w: n=%d", ErrEigenFailed, n)
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	r := Rule{X: es.Values(nil), W: make([]float64, n)}
	for j := 0; j < n; j++ {
		v := vecs.At(0, j)
		r.W[j] = v * v
	}
	sortRule(r)
	laguerre[n] = r

	return r, nil
}

// sortRule orders nodes ascending, carrying weights along.
func sortRule(r Rule) {
	idx := make([]int, len(r.X))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return r.X[idx[a]] < r.X[idx[b]] })
	x := append([]float64(nil), r.X...)
	w := append([]float64(nil), r.W...)
	for i, k := range idx {
		r.X[i], r.W[i] = x[k], w[k]
	}
}
