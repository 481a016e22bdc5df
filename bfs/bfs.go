package bfs

import (
	"context"
	"fmt"
	"slices"

	"github.com/katalvlaran/pathfinder/core"
)

// walker encapsulates mutable BFS state.
type walker struct {
	graph *core.Graph
	opts  Options
	ctx   context.Context
	queue []int
	res   *Result
}

// BFS runs breadth-first search on g from start. Arc weights are ignored.
//
// Errors: ErrGraphNil, ErrStartVertexNotFound, ErrOptionViolation, the
// context error on cancellation, or an OnVisit error.
func BFS(g *core.Graph, start int, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.HasVertex(start) {
		return nil, fmt.Errorf("%w: %d", ErrStartVertexNotFound, start)
	}

	n := g.VertexCount()
	w := &walker{
		graph: g,
		opts:  o,
		ctx:   o.Ctx,
		queue: make([]int, 0, n),
		res: &Result{
			Order:  make([]int, 0, n),
			Depth:  filled(n, -1),
			Parent: filled(n, -1),
		},
	}
	w.enqueue(start, 0, -1)

	return w.res, w.loop()
}

func filled(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}

	return s
}

func (w *walker) enqueue(v, d, parent int) {
	w.res.Depth[v] = d
	w.res.Parent[v] = parent
	w.queue = append(w.queue, v)
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		v := w.queue[0]
		w.queue = w.queue[1:]
		d := w.res.Depth[v]
		w.res.Order = append(w.res.Order, v)
		if err := w.opts.OnVisit(v, d); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", v, err)
		}
		if w.opts.MaxDepth > 0 && d+1 > w.opts.MaxDepth {
			continue
		}

		arcs, err := w.graph.Out(v)
		if err != nil {
			return err
		}
		for _, e := range arcs {
			if w.res.Depth[e.To] >= 0 || !w.opts.FilterNeighbor(v, e.To) {
				continue
			}
			w.enqueue(e.To, d+1, v)
		}
	}

	return nil
}

// Components partitions the vertices of g into connected components,
// following arcs in both directions. Each component is sorted ascending
// and components are ordered by their smallest vertex.
// Complexity: O(V + E).
func Components(g *core.Graph) ([][]int, error) {
	if g == nil {
		return nil, ErrGraphNil
	}

	u := undirected(g)
	n := u.VertexCount()
	seen := make([]bool, n)
	var out [][]int
	for v := 0; v < n; v++ {
		if seen[v] {
			continue
		}
		res, err := BFS(u, v)
		if err != nil {
			return nil, err
		}
		comp := res.Order
		for _, u := range comp {
			seen[u] = true
		}
		slices.Sort(comp)
		out = append(out, comp)
	}

	return out, nil
}

// undirected returns g itself when it already mirrors every arc, or an
// undirected copy otherwise.
func undirected(g *core.Graph) *core.Graph {
	if !g.Directed() {
		return g
	}
	u := core.NewGraph(core.WithDirected(false), core.WithLoops())
	u.AddVertices(g.VertexCount())
	for _, e := range g.Edges() {
		_, _ = u.AddEdge(e.From, e.To, e.Weight, e.Payload)
	}

	return u
}
