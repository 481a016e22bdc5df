// Package pathgraph chooses the integration contour: it assembles a graph
// whose vertices are the finite endpoints, the covering balls and the
// valleys at infinity, and whose edges are the traced steepest-descent
// segments, then asks package dijkstra for the cheapest a → b chain.
//
// Infinite endpoints are rotated onto the centre of the valley sector that
// contains their angle (Jordan's lemma: the arc at infinity between two
// directions of the same valley contributes nothing) and share that valley's
// vertex. Passing through a ball is expanded into a straight chord between
// the entry and exit points; the ball is convex and the integrand is
// bounded inside it. A chord across a merged ball can still swing through
// many oscillations, so it is bisected into panels until each passes
// PanelCheck.
//
// Edge weights prefer few pieces and few ball ends, break ties by arc
// length, and penalise traces grazing a foreign ball:
//
//	w = 1 + 0.5·(ball ends) + 1e-3·length + [passes within 1.5 r of another ball]
package pathgraph
