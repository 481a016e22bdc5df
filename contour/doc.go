// Package contour traces the steepest-descent pieces of an integration
// contour.
//
// A steepest-descent (SD) path from z0 is the curve z(p), p ≥ 0, with
//
//	Φ(z(p)) = Φ(z0) + i·p
//
// along which |exp(iΦ)| = |exp(iΦ(z0))|·e^{−p} decays monotonically and the
// phase is frozen. Paths are traced from two kinds of starting points:
//
//   - exits: points on a ball boundary where Im Φ peaks and the SD direction
//     points outward (Exits);
//   - connectors: finite integration endpoints lying outside every ball.
//
// A trace ends on the boundary of the first foreign ball it enters (a finite
// segment), or is committed to a valley at infinity once it is past the
// no-return radius and either inside the inner half of a valley sector or
// decayed past e^{−PMax}. Each Segment keeps a coarse (p, z)
// trace that package quadrature continues from with Segment.Locate.
//
// Straight chords (NewStraight) are the other piece kind; package pathgraph
// creates them for transits through balls and for direct routes.
package contour
