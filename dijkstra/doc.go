// Package dijkstra provides Dijkstra's shortest-path algorithm on the arena
// graph of package core, with float64 non-negative edge weights.
//
// Overview:
//
//   - Dijkstra computes the minimum-cost path from a single source vertex to all
//     reachable vertices in O((V + E) log V) time, where V = |vertices| and E = |arcs|.
//   - It relies on a min-heap (priority queue) to always expand the next-closest vertex.
//   - Supports optional path reconstruction, distance caps, and “impassable” edge thresholds.
//
// In this module it picks the cheapest chain of contour pieces between the
// two integration endpoints (package pathgraph); it knows nothing about
// contours itself: arcs carry a payload index the caller resolves.
//
// Key features:
//
//   - Functional options allow fine-tuning behavior without changing the API signature.
//   - ReturnPath: if enabled, returns the arc entering each vertex, so PathTo can
//     rebuild a path as a slice of arcs (payloads included).
//   - MaxDistance: aborts exploration beyond a specified distance.
//   - InfEdgeThreshold: treats any arc with weight ≥ threshold as impassable.
//   - Deterministic tie-breaking by insertion order.
//
// Error handling (sentinel errors):
//
//   - ErrEmptySource:    no Source option was given.
//   - ErrNilGraph:       nil *core.Graph.
//   - ErrVertexNotFound: source (or PathTo target) is not a vertex of the graph.
//   - ErrNegativeWeight: an arc has a negative weight (detected by an O(E) pre-scan).
//   - ErrUnreachable:    PathTo target has no predecessor chain back to the source.
//   - ErrBadMaxDistance, ErrBadInfThreshold: raised via panic by the option constructors.
//
// API reference:
//
//	func Dijkstra(g *core.Graph, opts ...Option) (dist []float64, prev []int, err error)
//	func PathTo(g *core.Graph, prev []int, source, target int) ([]core.Edge, error)
//
//	  - dist: dist[v] = minimal distance from Source to v, or +Inf if unreachable.
//	  - prev: prev[v] = ID of the arc entering v on one shortest path,
//	          or −1 if v is the Source or unreachable. Nil if ReturnPath=false.
//
// Thread safety:
//
//   - Dijkstra only reads the graph; the graph itself guards concurrent access.
package dijkstra
