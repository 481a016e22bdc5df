// Package cover builds the covering balls around stationary points.
//
// A ball B(ξ, r) bounds the region where exp(iΦ) oscillates at most NumOscs
// times relative to its value at ξ: along each of NumRays rays the radius is
// the first r with |Φ(ξ+re^{iθ}) − Φ(ξ)| ≥ 2π·NumOscs (or with the decay
// Im(Φ(z) − Φ(ξ)) ≥ ImagThresh), refined by bisection. The ball radius is
// the maximum over rays (TakeMax) or their mean.
//
// Two RadiusSearcher implementations share the numeric kernel and therefore
// return bit-identical radii:
//
//   - SerialSearcher   – portable, one goroutine.
//   - ParallelSearcher – rays fanned out over an errgroup (accelerated mode).
//
// Balls closer than MergeThresh (gap between boundaries) are linked in an
// overlap graph; each connected component (bfs.Components) is replaced by
// its enclosing ball, and this repeats until no pair is that close.
//
// A ray that never meets the criterion within MaxRaySteps degrades to the
// fallback radius r* + |ξ| instead of failing; Covering.Fallbacks counts them.
package cover
