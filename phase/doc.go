// Package phase analyses the polynomial phase g(z) of an oscillatory integrand
// exp(i·k·g(z)).
//
// Overview:
//
//   - Polynomial is an immutable complex polynomial with coefficients stored
//     highest degree first (leading zeros stripped on construction).
//   - Roots finds all complex roots with the Aberth–Ehrlich simultaneous
//     iteration followed by a Newton polish. Clustered and repeated roots are
//     supported: they converge linearly and are merged by Analyze.
//   - Analyze works on the scaled phase Φ(z) = k·g(z) and returns the
//     stationary points (zeros of Φ'), their local descent directions, the
//     valleys at infinity and the region-of-no-return radius r*.
//
// Conventions:
//
//   - A direction θ is a descent direction of Φ at z₀ when
//     Im(Φ(z₀+ρe^{iθ}) − Φ(z₀)) grows with ρ, i.e. |exp(iΦ)| decays.
//   - For a point of order q with Taylor coefficient c_q the descent
//     directions are θ_m = (π/2 − arg c_q + 2πm)/q, m = 0..q−1.
//   - Valleys at infinity use the leading coefficient c_J of a degree-J phase
//     with the same formula; each valley is an open sector of half-width π/(2J).
//
// Errors (sentinel):
//
//	– ErrEmptyPolynomial           no coefficients were supplied.
//	– ErrNonFinite                 a coefficient or evaluation is NaN/Inf.
//	– ErrDegreeTooLow              Analyze needs degree ≥ 2.
//	– ErrDegenerateStationaryPoint coincident stationary points under WithStrictStationary.
//	– ErrRootsNotConverged         Aberth iteration produced non-finite iterates.
package phase
