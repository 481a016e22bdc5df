// Package core defines the arena Graph used by the route search: vertices
// and edges are dense integer indices, edges carry a float64 weight and an
// opaque integer payload.
//
// This file declares Edge, Graph, GraphOption, sentinel errors, and the
// NewGraph constructor.
//
// Errors:
//
//	ErrVertexNotFound      - requested vertex index is out of range.
//	ErrEdgeNotFound        - requested edge index is out of range.
//	ErrBadWeight           - NaN or negative weight.
//	ErrLoopNotAllowed      - self-loop when loops are disabled.
package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrBadWeight indicates a NaN or negative edge weight.
	ErrBadWeight = errors.New("core: edge weight must be a non-negative number")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")
)

// Edge is one arc of the graph. Undirected edges are stored as two arcs
// sharing the same Payload, with Reverse set on the mirrored one.
type Edge struct {
	// ID is the dense index of this arc.
	ID int

	// From and To are vertex indices.
	From, To int

	// Weight is the traversal cost (≥ 0, +Inf allowed).
	Weight float64

	// Payload is caller data, typically an index into a side table.
	Payload int

	// Reverse marks the mirror arc of an undirected edge.
	Reverse bool
}

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(g *Graph)

// WithDirected sets the default directedness for all new edges
// (true = directed, false = undirected).
func WithDirected(defaultDirected bool) GraphOption {
	return func(g *Graph) { g.directed = defaultDirected }
}

// WithLoops permits self-loops (edges from a vertex to itself).
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// Graph is an append-only arena graph.
//
// Vertices are 0..VertexCount()-1 and edges 0..EdgeCount()-1 in insertion
// order, so iteration is deterministic. mu guards all storage.
type Graph struct {
	mu sync.RWMutex

	// Configuration flags
	directed   bool // default directedness
	allowLoops bool // allow self-loops

	// Storage
	vertices int
	edges    []Edge
	out      [][]int // vertex → outgoing arc IDs in insertion order
}

// NewGraph creates an empty Graph with the given options.
// By default, Graph is directed with no loops.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{directed: true}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
