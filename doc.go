// Package pathfinder computes quadrature rules for oscillatory integrals
//
//	I = ∫_a^b f(z)·exp(i·k·g(z)) dz
//
// with a polynomial phase g, by deforming the contour onto paths of steepest
// descent where exp(i·k·g) decays instead of oscillating. The result is a
// set of complex nodes zᵢ and weights wᵢ with Σ f(zᵢ)·wᵢ ≈ I for any smooth
// amplitude f; the number of nodes needed does not grow with k.
//
// Conventions:
//
//   - Every stage works on the scaled phase Φ(z) = k·g(z); a
//     steepest-descent path from z₀ is Φ(z(p)) = Φ(z₀) + i·p, p ≥ 0.
//   - An endpoint is Finite(z) or Infinite(θ); θ must lie in a valley of Φ
//     (a sector where exp(iΦ) decays). Any θ in the same valley gives the
//     same integral.
//
// Pipeline (leaf-first packages):
//
//	phase/      polynomial, roots, stationary points, valleys, r*
//	rootfind/   Halley iteration for Φ(x) − Φ(ξ) = i·p^r
//	quadrule/   Gauss–Legendre and Gauss–Laguerre rules
//	core/       index arena graph
//	bfs/        breadth-first search and connected components
//	cover/      balls around stationary points (serial or parallel ray search)
//	contour/    steepest-descent traces from ball exits and endpoints
//	dijkstra/   shortest paths over core graphs
//	pathgraph/  route graph over endpoints, balls and valleys
//	pathfilter/ magnitude pruning of route pieces
//	quadrature/ nodes and weights along the route
//
// Shortcuts bypass the pipeline: a constant phase uses Gauss–Legendre on the
// chord; a linear phase has a closed-form descent ray from each finite
// endpoint; finite endpoints whose chord holds at most NumOscs oscillations
// (and little decay) are integrated directly. WithoutFastPaths disables the
// last two.
//
// Quick example:
//
//	res, err := pathfinder.Quad(pathfinder.Finite(-1), pathfinder.Finite(1),
//		[]complex128{1, 0, 0}, 1000, 20)
//	// Σ res.Weights[i] ≈ ∫_{-1}^{1} exp(1000·i·x²) dx
//
// Non-fatal conditions (failed node refinement, magnitudes outside
// [1e-16, 1e16], fallback ball radii, dropped traces) are returned in
// Result.Warnings; stage durations in Result.Timings.
package pathfinder
