// Package bfs provides breadth-first search over a core.Graph, returning
// unweighted depths, parent links and visit order, plus connected
// components.
//
// The cover stage uses Components to cluster overlapping balls before
// replacing each cluster with its enclosing ball.
//
// Options:
//   - WithContext: cancellation, checked once per dequeued vertex.
//   - WithMaxDepth: do not expand vertices at depth ≥ d.
//   - WithFilterNeighbor: skip selected arcs.
//   - WithOnVisit: per-vertex hook; an error aborts the search.
//
// Complexity: O(V + E) time, O(V) memory.
package bfs
