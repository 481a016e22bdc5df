// SPDX-License-Identifier: MIT

package phase

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Polynomial is an immutable complex polynomial. Coefficients are stored
// highest degree first; the zero value is not usable, construct with
// NewPolynomial.
type Polynomial struct {
	c []complex128
}

// NewPolynomial builds a polynomial from coefficients ordered highest degree
// first. Leading zeros are stripped; an all-zero input yields the constant
// zero polynomial (degree 0).
//
// Errors:
//   - ErrEmptyPolynomial if coeffs is empty.
//   - ErrNonFinite if any coefficient is NaN or ±Inf.
//
// Complexity: O(n).
func NewPolynomial(coeffs ...complex128) (Polynomial, error) {
	if len(coeffs) == 0 {
		return Polynomial{}, ErrEmptyPolynomial
	}
	for i, c := range coeffs {
		if isBad(c) {
			return Polynomial{}, fmt.Errorf("%w: coefficient %d = %v", ErrNonFinite, i, c)
		}
	}

	// Strip leading zeros but keep at least the constant term.
	start := 0
	for start < len(coeffs)-1 && coeffs[start] == 0 {
		start++
	}
	c := make([]complex128, len(coeffs)-start)
	copy(c, coeffs[start:])

	return Polynomial{c: c}, nil
}

// MustPolynomial is NewPolynomial that panics on error. Intended for tests
// and package-level literals.
func MustPolynomial(coeffs ...complex128) Polynomial {
	p, err := NewPolynomial(coeffs...)
	if err != nil {
		panic(err)
	}

	return p
}

// Degree returns the polynomial degree (0 for constants).
func (p Polynomial) Degree() int { return len(p.c) - 1 }

// Coeffs returns a copy of the coefficients, highest degree first.
func (p Polynomial) Coeffs() []complex128 {
	out := make([]complex128, len(p.c))
	copy(out, p.c)

	return out
}

// Leading returns the leading coefficient.
func (p Polynomial) Leading() complex128 { return p.c[0] }

// Coeff returns the coefficient of z^j (0 when j is out of range).
func (p Polynomial) Coeff(j int) complex128 {
	n := p.Degree()
	if j < 0 || j > n {
		return 0
	}

	return p.c[n-j]
}

// IsConstant reports whether the polynomial has degree 0.
func (p Polynomial) IsConstant() bool { return len(p.c) == 1 }

// Eval evaluates the polynomial at z by Horner's rule.
func (p Polynomial) Eval(z complex128) complex128 {
	var v complex128
	for _, c := range p.c {
		v = v*z + c
	}

	return v
}

// Bound returns Σ|c_j|·|z|^j, the magnitude that rounding errors in Eval
// scale with.
func (p Polynomial) Bound(z complex128) float64 {
	r := cmplx.Abs(z)
	var v float64
	for _, c := range p.c {
		v = v*r + cmplx.Abs(c)
	}

	return v
}

// Derivs evaluates the polynomial and its first two derivatives at z in a
// single Horner pass.
func (p Polynomial) Derivs(z complex128) (f, df, d2f complex128) {
	for _, c := range p.c {
		d2f = d2f*z + df
		df = df*z + f
		f = f*z + c
	}

	return f, df, 2 * d2f
}

// Derivative returns p'. The derivative of a constant is the zero constant.
func (p Polynomial) Derivative() Polynomial {
	n := p.Degree()
	if n == 0 {
		return Polynomial{c: []complex128{0}}
	}
	d := make([]complex128, n)
	for i := 0; i < n; i++ {
		d[i] = p.c[i] * complex(float64(n-i), 0)
	}

	return Polynomial{c: d}
}

// Scale returns k·p. Scaling by zero yields the zero constant.
func (p Polynomial) Scale(k complex128) Polynomial {
	if k == 0 {
		return Polynomial{c: []complex128{0}}
	}
	s := make([]complex128, len(p.c))
	for i, c := range p.c {
		s[i] = k * c
	}

	return Polynomial{c: s}
}

// Taylor returns the coefficients t_j of p(z0+h) = Σ t_j h^j in ascending
// order of j, computed by repeated synthetic division.
//
// Complexity: O(n²).
func (p Polynomial) Taylor(z0 complex128) []complex128 {
	n := p.Degree()
	work := p.Coeffs()
	t := make([]complex128, n+1)
	for j := 0; j <= n; j++ {
		// One synthetic division pass: the remainder is t_j, the quotient
		// is kept in work[:n-j].
		var acc complex128
		for i := 0; i <= n-j; i++ {
			acc = acc*z0 + work[i]
			work[i] = acc
		}
		t[j] = work[n-j]
	}

	return t
}

// String renders the polynomial in a compact human-readable form.
func (p Polynomial) String() string {
	var b strings.Builder
	n := p.Degree()
	for i, c := range p.c {
		if c == 0 && n > 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" + ")
		}
		switch pow := n - i; pow {
		case 0:
			fmt.Fprintf(&b, "%v", c)
		case 1:
			fmt.Fprintf(&b, "%v·z", c)
		default:
			fmt.Fprintf(&b, "%v·z^%d", c, pow)
		}
	}
	if b.Len() == 0 {
		return "0"
	}

	return b.String()
}

// isBad reports NaN or infinite components.
func isBad(z complex128) bool {
	return math.IsNaN(real(z)) || math.IsNaN(imag(z)) || cmplx.IsInf(z)
}
