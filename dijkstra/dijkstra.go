// Package dijkstra implements Dijkstra's shortest-path algorithm on the
// arena graph with float64 weights.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Each vertex is extracted at most once: V extractions from the heap.
//   - Each edge relaxation may push a new entry into the heap: up to E pushes.
//   - Space: O(V + E)
//
// Notes on implementation choices:
//
//   - We perform an upfront scan of all edges (O(E)) to detect negative weights and fail fast.
//   - We treat any edge with weight ≥ InfEdgeThreshold (and any +Inf weight) as impassable.
//   - We stop exploring once the minimum distance in the heap exceeds MaxDistance.
//   - We use a “lazy” decrease-key strategy: pushing duplicates into the heap and ignoring stale entries.
//   - Ties are broken by insertion order (heap sequence number), so equal-cost
//     graphs always yield the same predecessor tree.
package dijkstra

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/pathfinder/core"
)

// Dijkstra computes shortest distances from the source vertex (Options.Source)
// to all other vertices in g.
//
// Returns:
//
//   - dist: dist[v] is the minimum distance (+Inf if unreachable).
//   - prev: with WithReturnPath, prev[v] is the ID of the arc entering v on
//     one shortest path, or −1 for the source and unreachable vertices.
//     Nil otherwise.
//   - err:  error if inputs are invalid or if a negative weight is detected.
//
// Preconditions and validation (in order):
//  1. Source must be set (ErrEmptySource).
//  2. g must be non-nil (ErrNilGraph).
//  3. g must contain Source (ErrVertexNotFound).
//  4. No edge in g can have negative weight (ErrNegativeWeight).
func Dijkstra(g *core.Graph, opts ...Option) ([]float64, []int, error) {
	// 1) Build Options
	cfg := DefaultOptions(NoSource)
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs
	if cfg.Source == NoSource {
		return nil, nil, ErrEmptySource
	}
	if g == nil {
		return nil, nil, ErrNilGraph
	}
	if !g.HasVertex(cfg.Source) {
		return nil, nil, fmt.Errorf("%w: %d", ErrVertexNotFound, cfg.Source)
	}

	// 3) Pre-scan all edges to detect negative weights.
	for _, e := range g.Edges() {
		if e.Weight < 0 {
			return nil, nil, fmt.Errorf("%w: edge %d→%d weight=%g", ErrNegativeWeight, e.From, e.To, e.Weight)
		}
	}

	// 4) Prepare state and run.
	V := g.VertexCount()
	r := &runner{
		g:       g,
		options: cfg,
		dist:    make([]float64, V),
		prev:    make([]int, V),
		visited: make([]bool, V),
		pq:      make(nodePQ, 0, V),
	}
	r.init()
	if err := r.process(); err != nil {
		return nil, nil, err
	}

	if !cfg.ReturnPath {
		return r.dist, nil, nil
	}

	return r.dist, r.prev, nil
}

// PathTo rebuilds the arcs of the shortest path ending at target from the
// predecessor slice returned with WithReturnPath. The source itself yields
// an empty path.
func PathTo(g *core.Graph, prev []int, source, target int) ([]core.Edge, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if target < 0 || target >= len(prev) {
		return nil, fmt.Errorf("%w: %d", ErrVertexNotFound, target)
	}

	var path []core.Edge
	for v := target; v != source; {
		id := prev[v]
		if id < 0 || len(path) > len(prev) {
			return nil, fmt.Errorf("%w: %d", ErrUnreachable, target)
		}
		e, err := g.Edge(id)
		if err != nil {
			return nil, err
		}
		path = append(path, e)
		v = e.From
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       *core.Graph // The input graph; read-only within Dijkstra.
	options Options     // Configuration options (Source, thresholds, etc.).
	dist    []float64   // vertex → current best distance from Source.
	prev    []int       // vertex → arc entering it on the shortest path.
	visited []bool      // Tracks if a vertex's distance is finalized.
	pq      nodePQ      // Min-heap of *nodeItem for lazy priority queue.
	seq     int         // heap insertion counter for tie-breaking
}

// init sets up initial distances, predecessors, visited flags, and pushes Source=0 into the heap.
func (r *runner) init() {
	for v := range r.dist {
		r.dist[v] = math.Inf(1)
		r.prev[v] = -1
	}
	r.dist[r.options.Source] = 0

	heap.Init(&r.pq)
	r.push(r.options.Source, 0)
}

func (r *runner) push(v int, d float64) {
	heap.Push(&r.pq, &nodeItem{id: v, dist: d, seq: r.seq})
	r.seq++
}

// process is the core loop of Dijkstra's algorithm. It repeatedly extracts the vertex
// with the minimum distance from the source and relaxes its outgoing edges.
//
// Loop termination conditions:
//
//   - The heap becomes empty (all reachable vertices processed).
//   - The minimum distance in the heap exceeds MaxDistance.
func (r *runner) process() error {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u, d := item.id, item.dist

		// Skip stale heap entries.
		if r.visited[u] {
			continue
		}
		if d > r.options.MaxDistance {
			break
		}
		r.visited[u] = true

		if err := r.relax(u); err != nil {
			return err
		}
	}

	return nil
}

// relax examines each arc leaving u and attempts to improve distances to its neighbors.
// Assumes r.dist[u] is finalized before calling relax(u).
func (r *runner) relax(u int) error {
	arcs, err := r.g.Out(u)
	if err != nil {
		return fmt.Errorf("dijkstra: failed to get arcs of %d: %w", u, err)
	}

	for _, e := range arcs {
		w := e.Weight
		if w >= r.options.InfEdgeThreshold || math.IsInf(w, 1) {
			continue
		}
		if w < 0 {
			return fmt.Errorf("%w: edge %d→%d weight=%g", ErrNegativeWeight, e.From, e.To, w)
		}

		newDist := r.dist[u] + w
		if newDist > r.options.MaxDistance {
			continue
		}
		// Strict improvement only: the first equal-cost path found wins.
		if newDist >= r.dist[e.To] {
			continue
		}

		r.dist[e.To] = newDist
		r.prev[e.To] = e.ID
		r.push(e.To, newDist)
	}

	return nil
}

// nodeItem represents a vertex and its current distance from the source.
type nodeItem struct {
	id   int     // vertex index
	dist float64 // distance from source
	seq  int     // insertion order
}

// nodePQ is a min-heap of *nodeItem ordered by dist, then by seq.
type nodePQ []*nodeItem

// Len returns the number of items in the heap.
func (pq nodePQ) Len() int { return len(pq) }

// Less defines the comparison: smaller dist → higher priority.
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}

// Swap swaps two elements in the heap.
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap.
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

// Pop removes and returns the smallest element from the heap.
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
