package core

import (
	"fmt"
	"math"
)

// Directed reports whether new edges are directed by default.
func (g *Graph) Directed() bool { return g.directed }

// AddVertex appends a vertex and returns its index.
// Complexity: O(1) amortised.
func (g *Graph) AddVertex() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.vertices
	g.vertices++
	g.out = append(g.out, nil)

	return id
}

// AddVertices appends n vertices and returns the index of the first.
func (g *Graph) AddVertices(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	first := g.vertices
	g.vertices += n
	for i := 0; i < n; i++ {
		g.out = append(g.out, nil)
	}

	return first
}

// AddEdge connects from → to with the given weight and payload and returns
// the ID of the forward arc. In an undirected graph a mirror arc to → from
// is appended right after it (ID+1) with Reverse set.
//
// Errors:
//   - ErrVertexNotFound if either endpoint is out of range.
//   - ErrBadWeight if weight is NaN or negative.
//   - ErrLoopNotAllowed if from == to and loops are disabled.
//
// Complexity: O(1) amortised.
func (g *Graph) AddEdge(from, to int, weight float64, payload int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if from < 0 || from >= g.vertices {
		return -1, fmt.Errorf("%w: %d", ErrVertexNotFound, from)
	}
	if to < 0 || to >= g.vertices {
		return -1, fmt.Errorf("%w: %d", ErrVertexNotFound, to)
	}
	if math.IsNaN(weight) || weight < 0 {
		return -1, fmt.Errorf("%w: %d→%d weight=%g", ErrBadWeight, from, to, weight)
	}
	if from == to && !g.allowLoops {
		return -1, fmt.Errorf("%w: vertex %d", ErrLoopNotAllowed, from)
	}

	id := g.appendArc(Edge{From: from, To: to, Weight: weight, Payload: payload})
	if !g.directed && from != to {
		g.appendArc(Edge{From: to, To: from, Weight: weight, Payload: payload, Reverse: true})
	}

	return id, nil
}

// appendArc stores e; the caller holds mu.
func (g *Graph) appendArc(e Edge) int {
	e.ID = len(g.edges)
	g.edges = append(g.edges, e)
	g.out[e.From] = append(g.out[e.From], e.ID)

	return e.ID
}

// HasVertex reports whether v is a valid vertex index.
func (g *Graph) HasVertex(v int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return v >= 0 && v < g.vertices
}

// Edge returns arc id.
func (g *Graph) Edge(id int) (Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if id < 0 || id >= len(g.edges) {
		return Edge{}, fmt.Errorf("%w: %d", ErrEdgeNotFound, id)
	}

	return g.edges[id], nil
}

// Out returns the arcs leaving v in insertion order. The slice is a copy.
// Complexity: O(deg(v)).
func (g *Graph) Out(v int) ([]Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if v < 0 || v >= g.vertices {
		return nil, fmt.Errorf("%w: %d", ErrVertexNotFound, v)
	}
	out := make([]Edge, len(g.out[v]))
	for i, id := range g.out[v] {
		out[i] = g.edges[id]
	}

	return out, nil
}

// Edges returns a copy of all arcs ordered by ID.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.vertices
}

// EdgeCount returns the number of arcs (mirrors included).
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}
