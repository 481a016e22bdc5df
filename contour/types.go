// SPDX-License-Identifier: MIT

package contour

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for the contour package.
var (
	// ErrTraceFailed indicates that a steepest-descent trace could not be
	// continued (step cap reached, vanishing Φ', or the corrector failed
	// at every step size).
	ErrTraceFailed = errors.New("contour: steepest-descent trace failed")

	// ErrBadConfig indicates an invalid Config field.
	ErrBadConfig = errors.New("contour: invalid configuration")
)

// Defaults (single source of truth for DefaultConfig).
const (
	DefaultSamples  = 128
	DefaultPMax     = 40.0
	DefaultMaxSteps = 5000

	// stepFraction bounds a trace step relative to |z| far from the balls.
	stepFraction = 0.05

	// maxHalvings bounds the step-size reductions of one predictor-corrector step.
	maxHalvings = 30

	// bisectionSteps locates ball boundaries and exit maxima.
	bisectionSteps = 30
	goldenSteps    = 60

	// relTol and roundoff set the corrector threshold (see tolerance).
	relTol   = 1e-12
	roundoff = 64 * 2.220446049250313e-16
)

// Kind distinguishes the two contour piece shapes.
type Kind int

const (
	// SteepestDescent pieces follow Φ(z(p)) = Φ(Start) + i·p.
	SteepestDescent Kind = iota
	// Straight pieces are chords, used inside balls and for direct routes.
	Straight
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case SteepestDescent:
		return "steepest-descent"
	case Straight:
		return "straight"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Point is one sample (p, z(p)) of a traced path.
type Point struct {
	P float64
	Z complex128
}

// Segment is one contour piece. Segments are created once and never
// mutated.
type Segment struct {
	Kind  Kind
	Start complex128
	End   complex128 // last traced point for a segment running to a valley

	// PEnd is the parameter at End, +Inf when the segment runs to Valley.
	PEnd   float64
	Valley int // valley index, −1 for finite segments

	// FromBall/ToBall are ball indices, −1 when the piece does not start or
	// end on a ball. FromEndpoint is the finite endpoint index a connector
	// starts at, −1 otherwise.
	FromBall     int
	ToBall       int
	FromEndpoint int

	// Trace holds coarse samples from p = 0 onward, reused by quadrature.
	Trace     []Point
	ArcLength float64

	// Step is the base step length used while tracing.
	Step float64
}

// ToValley reports whether the segment runs to a valley at infinity.
func (s Segment) ToValley() bool { return math.IsInf(s.PEnd, 1) }

// NewStraight returns the chord z1 → z2.
func NewStraight(z1, z2 complex128) Segment {
	return Segment{
		Kind:         Straight,
		Start:        z1,
		End:          z2,
		Valley:       -1,
		FromBall:     -1,
		ToBall:       -1,
		FromEndpoint: -1,
		ArcLength:    abs(z2 - z1),
	}
}

// Config configures Build.
type Config struct {
	Samples  int     // boundary samples per ball when looking for exits
	PMax     float64 // beyond NoReturn, a trace past p = PMax commits to the nearest valley
	MaxSteps int     // predictor-corrector steps per trace
	Workers  int     // > 1 traces segments concurrently
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Samples:  DefaultSamples,
		PMax:     DefaultPMax,
		MaxSteps: DefaultMaxSteps,
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	switch {
	case c.Samples < 4:
		return fmt.Errorf("%w: Samples=%d must be ≥ 4", ErrBadConfig, c.Samples)
	case !(c.PMax > 0):
		return fmt.Errorf("%w: PMax=%g must be > 0", ErrBadConfig, c.PMax)
	case c.MaxSteps < 1:
		return fmt.Errorf("%w: MaxSteps=%d must be ≥ 1", ErrBadConfig, c.MaxSteps)
	}

	return nil
}

// Drop records a trace that failed and was left out of the contour set.
type Drop struct {
	Ball     int // source ball, −1 for endpoint connectors
	Endpoint int // source endpoint, −1 for ball exits
	Err      error
}

// Contours is the frozen output of Build.
type Contours struct {
	Segments []Segment
	Dropped  []Drop

	// NoReturn is the radius past which traces were committed to valleys.
	NoReturn float64
}
