// SPDX-License-Identifier: MIT

package pathfinder

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/pathfinder/contour"
	"github.com/katalvlaran/pathfinder/cover"
	"github.com/katalvlaran/pathfinder/pathgraph"
	"github.com/katalvlaran/pathfinder/phase"
)

// Sentinel errors returned by Quad. Errors from the stage packages are
// wrapped so that both the sentinel below and the original cause match
// errors.Is.
var (
	// ErrDegenerateInput indicates an unusable phase or endpoint: no
	// coefficients, non-finite values, coincident stationary points in
	// strict mode, or an infinite endpoint outside every valley.
	ErrDegenerateInput = errors.New("pathfinder: degenerate input")

	// ErrNoPath indicates that no contour connects the endpoints.
	ErrNoPath = errors.New("pathfinder: no path between endpoints")

	// ErrInfiniteIntegral indicates an unbounded integrand magnitude.
	ErrInfiniteIntegral = errors.New("pathfinder: integral is infinite")

	// ErrBadPointCount indicates a non-positive number of points per piece.
	ErrBadPointCount = errors.New("pathfinder: points per piece must be positive")
)

// Endpoint is an integration limit: a finite point or infinity along a
// direction.
type Endpoint = pathgraph.Endpoint

// Finite returns the finite endpoint z.
func Finite(z complex128) Endpoint { return pathgraph.Finite(z) }

// Infinite returns the endpoint at infinity along angle (radians). The
// angle must lie inside a valley of the phase.
func Infinite(angle float64) Endpoint { return pathgraph.Infinite(angle) }

// Stage names used in timings and warnings.
const (
	StageFastPath   = "fastpath"
	StageAnalysis   = "analysis"
	StageCover      = "cover"
	StageContours   = "contours"
	StageGraph      = "graph"
	StagePath       = "path"
	StageFilter     = "filter"
	StageQuadrature = "quadrature"
)

// WarningKind classifies non-fatal conditions.
type WarningKind int

const (
	// WarnRootFindFailure: a node kept its continued estimate because the
	// Halley polish failed.
	WarnRootFindFailure WarningKind = iota
	// WarnMagnitudeOutOfRange: the dominant magnitude is outside
	// [1e-16, 1e16]; the result may be imprecise.
	WarnMagnitudeOutOfRange
	// WarnRayFallback: a ball radius ray hit its step cap.
	WarnRayFallback
	// WarnTraceDropped: a steepest-descent trace failed and was left out.
	WarnTraceDropped
	// WarnUnresolvedChord: a ball transit chord still failed the panel
	// check at the bisection cap.
	WarnUnresolvedChord
)

// String implements fmt.Stringer.
func (k WarningKind) String() string {
	switch k {
	case WarnRootFindFailure:
		return "root-find-failure"
	case WarnMagnitudeOutOfRange:
		return "magnitude-out-of-range"
	case WarnRayFallback:
		return "ray-fallback"
	case WarnTraceDropped:
		return "trace-dropped"
	case WarnUnresolvedChord:
		return "unresolved-chord"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k WarningKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Warning is a non-fatal condition met during a call.
type Warning struct {
	Kind    WarningKind
	Stage   string
	Message string
}

// String implements fmt.Stringer.
func (w Warning) String() string { return fmt.Sprintf("%s [%s]: %s", w.Kind, w.Stage, w.Message) }

// StageTiming is the wall time of one stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// Geometry is the contour construction exported for plotting.
type Geometry struct {
	Stationary []phase.StationaryPoint
	Valleys    []phase.Valley
	Balls      []cover.Ball
	Segments   []contour.Segment
	Route      []pathgraph.Ingredient
}

// Result is the output of Quad: Σ f(Nodes[i])·Weights[i] approximates the
// integral.
type Result struct {
	Nodes   []complex128
	Weights []complex128

	Warnings []Warning
	Timings  []StageTiming

	// FastPath names the shortcut that produced the result ("constant",
	// "linear", "direct"), empty for the general pipeline.
	FastPath string

	// Geometry is set with WithGeometry on the general pipeline.
	Geometry *Geometry
}

// Len returns the number of nodes.
func (r *Result) Len() int { return len(r.Nodes) }
