// Package core provides a small, thread-safe arena graph.
//
// Vertices and edges are identified by dense integer indices handed out in
// insertion order. There are no string IDs and no removal: the graph is
// built once per route search and then only read, which keeps iteration
// deterministic and lookups O(1).
//
// Configuration Options (GraphOption):
//
//	– WithDirected(defaultDirected bool)
//	    Directed (default) graphs store one arc per AddEdge.
//	    Undirected graphs also store the mirror arc to→from, flagged Reverse.
//
//	– WithLoops()
//	    Permits self-loops (from == to); otherwise AddEdge(v,v) → ErrLoopNotAllowed.
//
// Core Methods:
//
//	AddVertex() int                                              // O(1)
//	AddVertices(n int) int                                       // O(n)
//	AddEdge(from, to int, w float64, payload int) (int, error)   // O(1)
//	Out(v int) ([]Edge, error)                                   // O(deg v)
//	Edge(id int) (Edge, error)                                   // O(1)
//	Edges() []Edge                                               // O(E)
//	VertexCount(), EdgeCount() int                               // O(1)
//
// Edge weights are float64 and must be non-negative; +Inf is accepted and
// marks an impassable arc for dijkstra.WithInfEdgeThreshold.
//
// The Payload field lets callers attach their own data (for the route search,
// an index into the table of contour pieces) without the graph knowing about
// it.
package core
