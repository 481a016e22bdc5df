// SPDX-License-Identifier: MIT

package pathgraph

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/pathfinder/contour"
)

// Sentinel errors for the pathgraph package.
var (
	// ErrNoPath indicates that the target endpoint is unreachable from the
	// source endpoint through the candidate pieces.
	ErrNoPath = errors.New("pathgraph: no contour connects the endpoints")

	// ErrBadEndpoint indicates an infinite endpoint whose angle lies outside
	// every valley, so the integral does not converge there.
	ErrBadEndpoint = errors.New("pathgraph: infinite endpoint outside every valley")
)

// Defaults (single source of truth for DefaultConfig).
const (
	// DefaultNearFactor scales foreign ball radii for the proximity penalty.
	DefaultNearFactor = 1.5

	baseWeight    = 1.0
	ballEndWeight = 0.5
	arcWeight     = 1e-3
	nearPenalty   = 1.0
	attachWeight  = 0.5
	directSamples = 64

	// maxPanelDepth bounds the bisections of one ball transit chord.
	maxPanelDepth = 10
)

// Endpoint is an integration limit: a finite complex point, or infinity
// along a direction.
type Endpoint struct {
	Z        complex128
	Infinite bool
	Angle    float64 // direction of an infinite endpoint
}

// Finite returns the finite endpoint z.
func Finite(z complex128) Endpoint { return Endpoint{Z: z} }

// Infinite returns the endpoint at infinity along angle.
func Infinite(angle float64) Endpoint { return Endpoint{Infinite: true, Angle: angle} }

// String implements fmt.Stringer.
func (e Endpoint) String() string {
	if e.Infinite {
		return fmt.Sprintf("∞·e^{i%.4g}", e.Angle)
	}
	return fmt.Sprintf("%v", e.Z)
}

// FinitePoints lists the finite endpoints of ends in order. index[k] is the
// position of ends[k] in pts, or −1 for an infinite endpoint. The covering
// and the contour set are built over pts, so this is the one place the
// numbering is decided.
func FinitePoints(ends [2]Endpoint) (pts []complex128, index [2]int) {
	for k, e := range ends {
		index[k] = -1
		if !e.Infinite {
			index[k] = len(pts)
			pts = append(pts, e.Z)
		}
	}

	return pts, index
}

// VertexKind classifies graph vertices.
type VertexKind int

const (
	// EndpointVertex is a finite integration endpoint.
	EndpointVertex VertexKind = iota
	// BallVertex is a covering ball.
	BallVertex
	// ValleyVertex is a valley at infinity (infinite endpoints live here).
	ValleyVertex
)

// String implements fmt.Stringer.
func (k VertexKind) String() string {
	switch k {
	case EndpointVertex:
		return "endpoint"
	case BallVertex:
		return "ball"
	case ValleyVertex:
		return "valley"
	default:
		return fmt.Sprintf("VertexKind(%d)", int(k))
	}
}

// Vertex is a graph vertex; Index points into the endpoints (0 = a, 1 = b),
// the balls, or the valleys depending on Kind.
type Vertex struct {
	Kind  VertexKind
	Index int
}

// Ingredient is one oriented piece of a route.
type Ingredient struct {
	Segment contour.Segment
	Reverse bool // traversed End → Start

	// Magnitude is |exp(iΦ)| at the peak of the piece: the start of a
	// steepest-descent segment, the largest of the chord samples
	// (PeakMagnitude) otherwise.
	Magnitude float64
}

// From returns the first point of the piece in traversal order.
func (in Ingredient) From() complex128 {
	if in.Reverse {
		return in.Segment.End
	}
	return in.Segment.Start
}

// To returns the last point of the piece in traversal order.
func (in Ingredient) To() complex128 {
	if in.Reverse {
		return in.Segment.Start
	}
	return in.Segment.End
}

// Route is a complete a → b chain of ingredients.
type Route struct {
	Ingredients []Ingredient
	Cost        float64

	// Unresolved counts transit panels that still fail PanelCheck at the
	// bisection cap.
	Unresolved int
}

// Config configures Build.
type Config struct {
	// Direct adds an a → b chord when both endpoints are finite and the
	// chord passes DirectCheck with NumOscs and ImagThresh.
	Direct     bool
	NumOscs    float64
	ImagThresh float64

	// NearFactor: a trace passing within NearFactor·radius of a foreign
	// ball costs one extra unit.
	NearFactor float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Direct:     true,
		NumOscs:    1,
		ImagThresh: 5,
		NearFactor: DefaultNearFactor,
	}
}
