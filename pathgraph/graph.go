// SPDX-License-Identifier: MIT

package pathgraph

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/pathfinder/contour"
	"github.com/katalvlaran/pathfinder/core"
	"github.com/katalvlaran/pathfinder/cover"
	"github.com/katalvlaran/pathfinder/dijkstra"
	"github.com/katalvlaran/pathfinder/phase"
)

type arcKind int

const (
	segmentArc arcKind = iota // a traced steepest-descent segment
	attachArc                 // endpoint strictly inside a ball
	directArc                 // straight a → b chord
)

// arc is the payload behind one undirected graph edge.
type arc struct {
	kind     arcKind
	segment  int // index into the contour set (segmentArc)
	endpoint int // 0 = a, 1 = b (attachArc)
}

// Graph is the candidate-route graph over endpoints, balls and valleys.
type Graph struct {
	g        *core.Graph
	vertices []Vertex
	arcs     []arc

	phi      phase.Polynomial
	ends     [2]Endpoint
	segments []contour.Segment
	cfg      Config

	source, target int

	// Angles are the rotated directions of the endpoints (the valley centre
	// for infinite ones, NaN for finite ones).
	Angles [2]float64
}

// Build assembles the route graph.
//
// Implementation:
//   - Stage 1: vertices: one per ball, one per valley, one per distinct
//     finite endpoint. An infinite endpoint is rotated onto the centre of the
//     valley containing its angle and becomes that valley's vertex.
//   - Stage 2: one undirected edge per segment, start vertex → end vertex,
//     weight 1 + 0.5·(ball ends) + 1e-3·arc length + proximity penalty.
//   - Stage 3: endpoint-in-ball attachments (weight 0.5) and, when enabled
//     and benign, the direct a → b chord (weight 1).
//
// ctrs.Segments must have been traced over FinitePoints(ends) and cov.
//
// Errors:
//   - ErrBadEndpoint for an infinite endpoint outside every valley.
func Build(ends [2]Endpoint, a phase.Analysis, cov cover.Covering, ctrs contour.Contours, cfg Config) (*Graph, error) {
	pg := &Graph{
		g:        core.NewGraph(core.WithDirected(false)),
		phi:      a.Phase,
		ends:     ends,
		segments: ctrs.Segments,
		cfg:      cfg,
	}

	// Stage 1: vertices.
	ballV := pg.g.AddVertices(len(cov.Balls))
	for i := range cov.Balls {
		pg.vertices = append(pg.vertices, Vertex{Kind: BallVertex, Index: i})
	}
	valleyV := pg.g.AddVertices(len(a.Valleys))
	for i := range a.Valleys {
		pg.vertices = append(pg.vertices, Vertex{Kind: ValleyVertex, Index: i})
	}

	var endV [2]int
	for k, e := range ends {
		pg.Angles[k] = math.NaN()
		switch {
		case e.Infinite:
			v, ok := a.ValleyOf(e.Angle)
			if !ok {
				return nil, fmt.Errorf("%w: angle %.6g", ErrBadEndpoint, e.Angle)
			}
			endV[k] = valleyV + v
			pg.Angles[k] = a.Valleys[v].Angle
		case k == 1 && !ends[0].Infinite && ends[0].Z == e.Z:
			endV[k] = endV[0]
		default:
			endV[k] = pg.g.AddVertex()
			pg.vertices = append(pg.vertices, Vertex{Kind: EndpointVertex, Index: k})
		}
	}
	pg.source, pg.target = endV[0], endV[1]

	_, finite := FinitePoints(ends)
	endpointOf := make(map[int]int, 2) // finite index → endpoint k
	for k, idx := range finite {
		if idx >= 0 {
			if _, seen := endpointOf[idx]; !seen {
				endpointOf[idx] = k
			}
		}
	}

	// Stage 2: segments.
	for i, s := range ctrs.Segments {
		var from, to int
		switch {
		case s.FromEndpoint >= 0:
			from = endV[endpointOf[s.FromEndpoint]]
		case s.FromBall >= 0:
			from = ballV + s.FromBall
		default:
			continue
		}
		switch {
		case s.ToBall >= 0:
			to = ballV + s.ToBall
		case s.Valley >= 0:
			to = valleyV + s.Valley
		default:
			continue
		}
		if from == to {
			continue
		}
		w := segmentWeight(s, cov.Balls, cfg.NearFactor)
		if err := pg.addArc(from, to, w, arc{kind: segmentArc, segment: i}); err != nil {
			return nil, err
		}
	}

	// Stage 3: attachments and the direct chord.
	for k, idx := range finite {
		if idx < 0 || idx >= len(cov.EndpointOwner) || cov.EndpointOwner[idx] < 0 {
			continue
		}
		if k == 1 && endV[1] == endV[0] {
			continue
		}
		b := ballV + cov.EndpointOwner[idx]
		if err := pg.addArc(endV[k], b, attachWeight, arc{kind: attachArc, endpoint: k}); err != nil {
			return nil, err
		}
	}
	if cfg.Direct && !ends[0].Infinite && !ends[1].Infinite && endV[0] != endV[1] &&
		DirectCheck(a.Phase, ends[0].Z, ends[1].Z, cfg.NumOscs, cfg.ImagThresh) {
		if err := pg.addArc(endV[0], endV[1], baseWeight, arc{kind: directArc}); err != nil {
			return nil, err
		}
	}

	return pg, nil
}

func (pg *Graph) addArc(from, to int, w float64, a arc) error {
	if _, err := pg.g.AddEdge(from, to, w, len(pg.arcs)); err != nil {
		return fmt.Errorf("pathgraph: %w", err)
	}
	pg.arcs = append(pg.arcs, a)

	return nil
}

// segmentWeight is 1 + 0.5 per ball end + 1e-3·arc length, plus one unit if
// the trace passes within nearFactor radii of a ball it does not touch.
func segmentWeight(s contour.Segment, balls []cover.Ball, nearFactor float64) float64 {
	w := baseWeight + arcWeight*s.ArcLength
	if s.FromBall >= 0 {
		w += ballEndWeight
	}
	if s.ToBall >= 0 {
		w += ballEndWeight
	}
	for i, b := range balls {
		if i == s.FromBall || i == s.ToBall {
			continue
		}
		for _, pt := range s.Trace {
			if cmplx.Abs(pt.Z-b.Center) < nearFactor*b.Radius {
				return w + nearPenalty
			}
		}
	}

	return w
}

// Vertices returns the vertex table (index = core vertex index).
func (pg *Graph) Vertices() []Vertex {
	out := make([]Vertex, len(pg.vertices))
	copy(out, pg.vertices)

	return out
}

// Endpoints returns the source and target vertex indices.
func (pg *Graph) Endpoints() (source, target int) { return pg.source, pg.target }

// EdgeCount returns the number of undirected edges.
func (pg *Graph) EdgeCount() int { return len(pg.arcs) }

// ShortestPath returns the cheapest a → b route. Ball transits are expanded
// into straight chords between the attachment points, bisected into panels
// until every panel passes PanelCheck; valley transits need nothing (the arc
// at infinity vanishes). a and b on the same vertex give an empty route.
//
// Errors:
//   - ErrNoPath when b is unreachable.
func (pg *Graph) ShortestPath() (Route, error) {
	if pg.source == pg.target {
		return Route{}, nil
	}

	dist, prev, err := dijkstra.Dijkstra(pg.g, dijkstra.Source(pg.source), dijkstra.WithReturnPath())
	if err != nil {
		return Route{}, fmt.Errorf("pathgraph: %w", err)
	}
	if math.IsInf(dist[pg.target], 1) {
		return Route{}, ErrNoPath
	}
	path, err := dijkstra.PathTo(pg.g, prev, pg.source, pg.target)
	if err != nil {
		if errors.Is(err, dijkstra.ErrUnreachable) {
			return Route{}, ErrNoPath
		}
		return Route{}, fmt.Errorf("pathgraph: %w", err)
	}

	route := Route{Cost: dist[pg.target]}
	var entry complex128 // where the route entered the current ball
	inBall := false
	for _, e := range path {
		a := pg.arcs[e.Payload]

		var piece *contour.Segment
		var start, end complex128
		var startsAtBall, endsAtBall bool
		switch a.kind {
		case segmentArc:
			s := pg.segments[a.segment]
			piece = &s
			start, end = s.Start, s.End
			startsAtBall, endsAtBall = s.FromBall >= 0, s.ToBall >= 0
			if e.Reverse {
				start, end = end, start
				startsAtBall, endsAtBall = endsAtBall, startsAtBall
			}
		case attachArc:
			start = pg.ends[a.endpoint].Z
			end = start
			startsAtBall, endsAtBall = e.Reverse, !e.Reverse
		case directArc:
			s := contour.NewStraight(pg.ends[0].Z, pg.ends[1].Z)
			piece = &s
			start, end = s.Start, s.End
			if e.Reverse {
				start, end = end, start
			}
		}

		if startsAtBall && inBall && entry != start {
			route.Ingredients = pg.transit(route.Ingredients, entry, start, 0, &route.Unresolved)
		}
		if piece != nil {
			route.Ingredients = append(route.Ingredients, pg.ingredient(*piece, e.Reverse))
		}
		inBall, entry = endsAtBall, end
	}

	return route, nil
}

// transit appends the chord a → b through a ball, bisected until each panel
// passes PanelCheck or maxPanelDepth is reached; panels still failing at the
// cap are counted in unresolved.
func (pg *Graph) transit(out []Ingredient, a, b complex128, depth int, unresolved *int) []Ingredient {
	if !PanelCheck(pg.phi, a, b, pg.cfg.NumOscs, pg.cfg.ImagThresh) {
		if depth < maxPanelDepth {
			mid := (a + b) / 2
			out = pg.transit(out, a, mid, depth+1, unresolved)
			return pg.transit(out, mid, b, depth+1, unresolved)
		}
		*unresolved++
	}

	return append(out, pg.ingredient(contour.NewStraight(a, b), false))
}

// ingredient wraps a piece with its peak magnitude.
func (pg *Graph) ingredient(s contour.Segment, reverse bool) Ingredient {
	in := Ingredient{Segment: s, Reverse: reverse}

	switch s.Kind {
	case contour.SteepestDescent:
		in.Magnitude = math.Exp(-imag(pg.phi.Eval(s.Start)))
	default:
		in.Magnitude = PeakMagnitude(pg.phi, s.Start, s.End)
	}

	return in
}

// chordValues samples Φ at directSamples·J + 1 evenly spaced points of the
// chord a → b, ends included.
func chordValues(phi phase.Polynomial, a, b complex128) []complex128 {
	n := directSamples * max(phi.Degree(), 1)
	out := make([]complex128, n+1)
	for j := range out {
		out[j] = phi.Eval(a + complex(float64(j)/float64(n), 0)*(b-a))
	}

	return out
}

// PeakMagnitude returns the largest |exp(iΦ)| over the chord samples.
func PeakMagnitude(phi phase.Polynomial, a, b complex128) float64 {
	lo := math.Inf(1)
	for _, v := range chordValues(phi, a, b) {
		lo = math.Min(lo, imag(v))
	}

	return math.Exp(-lo)
}

// DirectCheck reports whether the straight chord a → b can be integrated
// directly: |Φ(z) − Φ(a)| ≤ 2π·numOscs along it and Im Φ varies by at most
// imagThresh.
func DirectCheck(phi phase.Polynomial, a, b complex128, numOscs, imagThresh float64) bool {
	vals := chordValues(phi, a, b)
	phiA := vals[0]
	lo, hi := imag(phiA), imag(phiA)
	for _, v := range vals[1:] {
		if cmplx.Abs(v-phiA) > 2*math.Pi*numOscs {
			return false
		}
		lo, hi = math.Min(lo, imag(v)), math.Max(hi, imag(v))
	}

	return hi-lo <= imagThresh
}

// PanelCheck applies the ball criterion to the chord a → b, centred on its
// peak sample z*: every sample satisfies |Φ(z) − Φ(z*)| ≤ 2π·numOscs or has
// decayed by Im(Φ(z) − Φ(z*)) ≥ imagThresh. Chords between the exits of a
// ball built around a single stationary point pass; chords across a merged
// ball may not.
func PanelCheck(phi phase.Polynomial, a, b complex128, numOscs, imagThresh float64) bool {
	vals := chordValues(phi, a, b)
	peak := vals[0]
	for _, v := range vals[1:] {
		if imag(v) < imag(peak) {
			peak = v
		}
	}
	for _, v := range vals {
		d := v - peak
		if cmplx.Abs(d) > 2*math.Pi*numOscs && imag(d) < imagThresh {
			return false
		}
	}

	return true
}
