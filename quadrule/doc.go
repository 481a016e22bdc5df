// Package quadrule provides the real base rules laid along steepest-descent
// parameters and straight chords:
//
//   - Legendre(n): n-point Gauss–Legendre on [−1, 1] (gonum integrate/quad).
//   - Laguerre(n): n-point Gauss–Laguerre for ∫₀^∞ e^{−p}·f(p) dp, computed
//     with the Golub–Welsch eigenvalue method (gonum mat.EigenSym).
//
// Rules are cached per n; returned slices are shared and must not be mutated.
package quadrule
