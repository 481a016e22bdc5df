// Package quadrature turns a route into quadrature nodes and weights.
//
// Straight pieces get Gauss–Legendre nodes on the chord. A steepest-descent
// piece z = h(p) is integrated in its own parameter:
//
//	∫ f(z)·exp(iΦ(z)) dz = exp(iΦ(z₀)) ∫ f(h(p))·h′(p)·e^{−p} dp,  h′ = i/Φ′(h)
//
// with Gauss–Laguerre when the piece runs to a valley and Gauss–Legendre on
// [0, PEnd] otherwise. Each node h(p) is placed by continuing the coarse
// trace kept on the segment and polishing with Halley's iteration; a node
// whose polish fails keeps the continued estimate and is reported in
// Result.Failures.
package quadrature
