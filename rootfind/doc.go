// Package rootfind solves the steepest-descent parametrisation equation
//
//	Φ(x) − Φ(ξ) = i·p^r
//
// for x, given a scaled phase Φ = k·g with its first two derivatives, an
// anchor point ξ (a stationary point or any point the path passes through),
// a real path parameter p ≥ 0 and an exponent r (1 for a path started at a
// regular point, the stationary point order for a path started at a saddle).
// Along the solution curve Re(iΦ) decreases like −p^r, so |exp(iΦ)| decays.
//
// The solver is Halley's third-order iteration
//
//	x ← x − 2·F·F′ / (2·F′² − F·F″)
//
// capped at MaxIterations. Failure is reported as a value, never a panic.
package rootfind
