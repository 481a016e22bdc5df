// SPDX-License-Identifier: MIT

package phase

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the phase package.
var (
	// ErrEmptyPolynomial indicates that no coefficients were supplied.
	ErrEmptyPolynomial = errors.New("phase: polynomial has no coefficients")

	// ErrNonFinite indicates a NaN or ±Inf coefficient.
	ErrNonFinite = errors.New("phase: non-finite coefficient")

	// ErrDegreeTooLow indicates that a phase of degree < 2 reached the
	// stationary point analysis (linear and constant phases have no
	// stationary points and are handled by closed forms).
	ErrDegreeTooLow = errors.New("phase: degree must be at least 2")

	// ErrDegenerateStationaryPoint indicates two stationary points that
	// coincide within tolerance while strict mode is enabled.
	ErrDegenerateStationaryPoint = errors.New("phase: degenerate stationary point")

	// ErrRootsNotConverged indicates that the root iteration diverged.
	ErrRootsNotConverged = errors.New("phase: root iteration did not converge")
)

// StationaryPoint is a zero of Φ'.
//
// Order is the order q of the first non-vanishing Taylor coefficient of Φ at
// Z (q = 2 for a simple saddle). Multiplicity counts the merged roots of Φ'
// (Multiplicity = Order − 1). Directions lists the q local descent angles.
type StationaryPoint struct {
	Z            complex128
	Order        int
	Multiplicity int
	Coefficient  complex128 // Taylor coefficient c_q of Φ at Z
	Directions   []float64
}

// String implements fmt.Stringer.
func (s StationaryPoint) String() string {
	return fmt.Sprintf("ξ=%v (order %d)", s.Z, s.Order)
}

// Valley is a sector at infinity in which exp(iΦ) decays.
type Valley struct {
	Index     int
	Angle     float64 // centre direction in (−π, π]
	HalfWidth float64 // sector half-width π/(2J)
}

// Analysis bundles everything derived from the scaled phase.
type Analysis struct {
	// Phase is the scaled phase Φ = k·g the analysis was computed on.
	Phase Polynomial

	// Stationary lists the (merged) stationary points, ordered by real part
	// then imaginary part for determinism.
	Stationary []StationaryPoint

	// Valleys lists the J valleys at infinity ordered by Index.
	Valleys []Valley

	// NoReturn is the region-of-no-return radius r*: for |z| > r* the leading
	// term dominates every lower-order term of Φ.
	NoReturn float64
}

// Option configures Analyze.
type Option func(*Options)

// Options holds the Analyze configuration.
type Options struct {
	// MergeTolerance is the relative distance below which two roots of Φ'
	// are considered the same stationary point. The absolute tolerance is
	// MergeTolerance·max(1, max|root|).
	MergeTolerance float64

	// Strict turns coincident stationary points into ErrDegenerateStationaryPoint.
	Strict bool
}

// DefaultMergeTolerance is the default relative merge tolerance.
const DefaultMergeTolerance = 1e-5

// DefaultOptions returns the Analyze defaults.
func DefaultOptions() Options {
	return Options{MergeTolerance: DefaultMergeTolerance}
}

// WithMergeTolerance overrides the relative stationary point merge tolerance.
// Panics on a negative value.
func WithMergeTolerance(tol float64) Option {
	return func(o *Options) {
		if tol < 0 {
			panic("phase: merge tolerance must be non-negative")
		}
		o.MergeTolerance = tol
	}
}

// WithStrictStationary makes Analyze fail on coincident stationary points
// instead of merging them into a higher-order point.
func WithStrictStationary() Option {
	return func(o *Options) { o.Strict = true }
}
