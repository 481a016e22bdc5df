package pathfinder_test

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/katalvlaran/pathfinder"
	"github.com/katalvlaran/pathfinder/pathgraph"
	"github.com/katalvlaran/pathfinder/phase"
)

var quadratic = []complex128{1, 0, 0}

// fresnel returns ∫_{-1}^{1} exp(iωx²) dx by panel-wise Gauss–Legendre.
func fresnel(omega float64) complex128 {
	const panels = 4000
	h := 1.0 / panels
	var re, im float64
	for k := 0; k < panels; k++ {
		lo := float64(k) * h
		re += quad.Fixed(func(x float64) float64 { return math.Cos(omega * x * x) }, lo, lo+h, 16, nil, 0)
		im += quad.Fixed(func(x float64) float64 { return math.Sin(omega * x * x) }, lo, lo+h, 16, nil, 0)
	}

	return complex(2*re, 2*im)
}

func sum(w []complex128) complex128 {
	var s complex128
	for _, x := range w {
		s += x
	}

	return s
}

func relErr(got, want complex128) float64 { return cmplx.Abs(got-want) / cmplx.Abs(want) }

func TestQuad_FresnelAccuracyDoesNotDegradeWithFrequency(t *testing.T) {
	for _, omega := range []float64{50, 500, 5000} {
		res, err := pathfinder.Quad(pathfinder.Finite(-1), pathfinder.Finite(1), quadratic, complex(omega, 0), 20)
		require.NoError(t, err, "ω=%g", omega)
		assert.Empty(t, res.FastPath)
		assert.Equal(t, 100, res.Len(), "five pieces of 20 nodes")
		assert.Less(t, relErr(sum(res.Weights), fresnel(omega)), 1e-9, "ω=%g", omega)
	}
}

func TestQuad_InfiniteEndpoints(t *testing.T) {
	// ∫ over the whole steepest-descent line through 0 of exp(10iz²).
	res, err := pathfinder.Quad(pathfinder.Infinite(-3*math.Pi/4+0.2), pathfinder.Infinite(math.Pi/4-0.1), quadratic, 10, 20)
	require.NoError(t, err)
	want := cmplx.Rect(math.Sqrt(math.Pi/10), math.Pi/4)
	assert.Less(t, relErr(sum(res.Weights), want), 1e-10)

	// Same valley on both ends: nothing to integrate.
	res, err = pathfinder.Quad(pathfinder.Infinite(math.Pi/4), pathfinder.Infinite(math.Pi/4+0.5), quadratic, 10, 20)
	require.NoError(t, err)
	assert.Zero(t, res.Len())
}

func TestQuad_LinearFastPathMatchesPipeline(t *testing.T) {
	coeffs := []complex128{1, 0.5}
	a, b := pathfinder.Finite(-1), pathfinder.Finite(1+0.5i)

	fast, err := pathfinder.Quad(a, b, coeffs, 40, 12)
	require.NoError(t, err)
	assert.Equal(t, pathfinder.FastPathLinear, fast.FastPath)

	slow, err := pathfinder.Quad(a, b, coeffs, 40, 12, pathfinder.WithoutFastPaths())
	require.NoError(t, err)
	assert.Empty(t, slow.FastPath)

	require.Equal(t, fast.Len(), slow.Len())
	for i := range fast.Nodes {
		assert.InDelta(t, 0, cmplx.Abs(fast.Nodes[i]-slow.Nodes[i]), 1e-10, "node %d", i)
		assert.InDelta(t, 0, cmplx.Abs(fast.Weights[i]-slow.Weights[i]), 1e-10, "weight %d", i)
	}

	// ∫ exp(40i(z + 0.5)) dz in closed form.
	phi := func(z complex128) complex128 { return cmplx.Exp(40i * (z + 0.5)) }
	want := (phi(b.Z) - phi(a.Z)) / 40i
	assert.Less(t, relErr(sum(fast.Weights), want), 1e-12)
}

func TestQuad_LinearWithInfiniteEndpoint(t *testing.T) {
	// Φ = 5z decays towards +i∞.
	res, err := pathfinder.Quad(pathfinder.Finite(0.3), pathfinder.Infinite(math.Pi/2+0.4), []complex128{1, 0}, 5, 8)
	require.NoError(t, err)
	want := -cmplx.Exp(1.5i) / 5i
	assert.Less(t, relErr(sum(res.Weights), want), 1e-12)
	assert.Equal(t, 8, res.Len())

	_, err = pathfinder.Quad(pathfinder.Finite(0), pathfinder.Infinite(-math.Pi/2), []complex128{1, 0}, 5, 8)
	require.ErrorIs(t, err, pathfinder.ErrDegenerateInput)
	require.ErrorIs(t, err, pathgraph.ErrBadEndpoint)
}

func TestQuad_ConstantPhase(t *testing.T) {
	res, err := pathfinder.Quad(pathfinder.Finite(1i), pathfinder.Finite(2), []complex128{0, 0, 2}, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, pathfinder.FastPathConstant, res.FastPath)
	assert.InDelta(t, 0, cmplx.Abs(sum(res.Weights)-(2-1i)*cmplx.Exp(6i)), 1e-14)

	_, err = pathfinder.Quad(pathfinder.Finite(0), pathfinder.Infinite(0), []complex128{2}, 3, 4)
	require.ErrorIs(t, err, pathfinder.ErrDegenerateInput)

	// k = 0 collapses any phase to a constant.
	res, err = pathfinder.Quad(pathfinder.Finite(0), pathfinder.Finite(1), quadratic, 0, 4)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(sum(res.Weights)), 1e-14)
}

func TestQuad_DirectFastPath(t *testing.T) {
	res, err := pathfinder.Quad(pathfinder.Finite(-0.5), pathfinder.Finite(0.5), quadratic, 2, 16)
	require.NoError(t, err)
	assert.Equal(t, pathfinder.FastPathDirect, res.FastPath)
	assert.Equal(t, 16, res.Len())

	var re, im float64
	re = quad.Fixed(func(x float64) float64 { return math.Cos(2 * x * x) }, -0.5, 0.5, 64, nil, 0)
	im = quad.Fixed(func(x float64) float64 { return math.Sin(2 * x * x) }, -0.5, 0.5, 64, nil, 0)
	assert.Less(t, relErr(sum(res.Weights), complex(re, im)), 1e-13)
}

func TestQuad_Idempotent(t *testing.T) {
	run := func() *pathfinder.Result {
		res, err := pathfinder.Quad(pathfinder.Finite(-1+0.2i), pathfinder.Finite(1.5),
			[]complex128{1, -0.5, 0.3, 0}, 60, 10)
		require.NoError(t, err)
		return res
	}
	first, second := run(), run()
	if diff := cmp.Diff(first.Nodes, second.Nodes); diff != "" {
		t.Fatalf("nodes differ:\n%s", diff)
	}
	if diff := cmp.Diff(first.Weights, second.Weights); diff != "" {
		t.Fatalf("weights differ:\n%s", diff)
	}
	if diff := cmp.Diff(first.Warnings, second.Warnings); diff != "" {
		t.Fatalf("warnings differ:\n%s", diff)
	}
}

func TestQuad_AcceleratedMatchesPortable(t *testing.T) {
	defer goleak.VerifyNone(t)

	coeffs := []complex128{1, 0, -1, 0}
	a, b := pathfinder.Finite(-2), pathfinder.Finite(2)
	portable, err := pathfinder.Quad(a, b, coeffs, 30, 12)
	require.NoError(t, err)
	accel, err := pathfinder.Quad(a, b, coeffs, 30, 12, pathfinder.WithAccelerated(true))
	require.NoError(t, err)

	if diff := cmp.Diff(portable.Nodes, accel.Nodes); diff != "" {
		t.Fatalf("nodes differ (-portable +accelerated):\n%s", diff)
	}
	if diff := cmp.Diff(portable.Weights, accel.Weights); diff != "" {
		t.Fatalf("weights differ (-portable +accelerated):\n%s", diff)
	}
}

func TestQuad_CubicAgainstDirectQuadrature(t *testing.T) {
	// Two saddles at ±1/sqrt(3); moderate k keeps the real-line reference cheap.
	coeffs := []complex128{1, 0, -1, 0}
	const k = 25.0
	res, err := pathfinder.Quad(pathfinder.Finite(-2), pathfinder.Finite(2), coeffs, k, 20)
	require.NoError(t, err)

	const panels = 2000
	h := 4.0 / panels
	var re, im float64
	for j := 0; j < panels; j++ {
		lo := -2 + float64(j)*h
		f := func(x float64) float64 { return k * (x*x*x - x) }
		re += quad.Fixed(func(x float64) float64 { return math.Cos(f(x)) }, lo, lo+h, 16, nil, 0)
		im += quad.Fixed(func(x float64) float64 { return math.Sin(f(x)) }, lo, lo+h, 16, nil, 0)
	}
	assert.Less(t, relErr(sum(res.Weights), complex(re, im)), 1e-8)
}

func TestQuad_Geometry(t *testing.T) {
	res, err := pathfinder.Quad(pathfinder.Finite(-1), pathfinder.Finite(1), quadratic, 100, 8, pathfinder.WithGeometry())
	require.NoError(t, err)
	require.NotNil(t, res.Geometry)
	assert.Len(t, res.Geometry.Stationary, 1)
	assert.Len(t, res.Geometry.Valleys, 2)
	assert.Len(t, res.Geometry.Balls, 1)
	assert.Len(t, res.Geometry.Segments, 4)
	assert.Len(t, res.Geometry.Route, 5)

	res, err = pathfinder.Quad(pathfinder.Finite(-1), pathfinder.Finite(1), quadratic, 100, 8)
	require.NoError(t, err)
	assert.Nil(t, res.Geometry)
}

func TestQuad_ContourStartThreshDropsSmallPieces(t *testing.T) {
	// The exit pieces peak at e^{−2π}; the connectors and chord at 1.
	res, err := pathfinder.Quad(pathfinder.Finite(-1), pathfinder.Finite(1), quadratic, 100, 8,
		pathfinder.WithContourStartThresh(0.5), pathfinder.WithGeometry())
	require.NoError(t, err)
	assert.Len(t, res.Geometry.Route, 3)
	assert.Equal(t, 24, res.Len())

	res, err = pathfinder.Quad(pathfinder.Finite(-1), pathfinder.Finite(1), quadratic, 100, 8,
		pathfinder.WithContourStartThresh(0))
	require.NoError(t, err)
	assert.Equal(t, 40, res.Len())
}

func TestQuad_TimingsAndLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	res, err := pathfinder.Quad(pathfinder.Finite(-1), pathfinder.Finite(1), quadratic, 100, 8,
		pathfinder.WithLogger(zap.New(core)))
	require.NoError(t, err)

	var stages []string
	for _, st := range res.Timings {
		stages = append(stages, st.Stage)
		assert.GreaterOrEqual(t, st.Duration.Nanoseconds(), int64(0))
	}
	assert.Equal(t, []string{
		pathfinder.StageFastPath, pathfinder.StageAnalysis, pathfinder.StageCover, pathfinder.StageContours,
		pathfinder.StageGraph, pathfinder.StagePath, pathfinder.StageFilter, pathfinder.StageQuadrature,
	}, stages)
	assert.Equal(t, len(stages), logs.FilterMessage("stage done").Len())
	assert.Equal(t, 1, logs.FilterMessage("quad done").Len())
}

func TestQuad_Errors(t *testing.T) {
	a, b := pathfinder.Finite(-1), pathfinder.Finite(1)

	_, err := pathfinder.Quad(a, b, quadratic, 10, 0)
	require.ErrorIs(t, err, pathfinder.ErrBadPointCount)

	_, err = pathfinder.Quad(a, b, nil, 10, 4)
	require.ErrorIs(t, err, pathfinder.ErrDegenerateInput)
	require.ErrorIs(t, err, phase.ErrEmptyPolynomial)

	_, err = pathfinder.Quad(a, b, quadratic, complex(math.NaN(), 0), 4)
	require.ErrorIs(t, err, pathfinder.ErrDegenerateInput)

	_, err = pathfinder.Quad(pathfinder.Finite(complex(math.Inf(1), 0)), b, quadratic, 10, 4)
	require.ErrorIs(t, err, pathfinder.ErrDegenerateInput)

	// 3π/4 is a hill of z², not a valley.
	_, err = pathfinder.Quad(pathfinder.Infinite(3*math.Pi/4), b, quadratic, 10, 4)
	require.ErrorIs(t, err, pathfinder.ErrDegenerateInput)
	require.ErrorIs(t, err, pathgraph.ErrBadEndpoint)

	// (z−1)³ has a double stationary point.
	_, err = pathfinder.Quad(a, pathfinder.Finite(3), []complex128{1, -3, 3, -1}, 10, 4, pathfinder.WithStrictStationary())
	require.ErrorIs(t, err, pathfinder.ErrDegenerateInput)
	require.ErrorIs(t, err, phase.ErrDegenerateStationaryPoint)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pathfinder.QuadContext(ctx, a, b, quadratic, 100, 4)
	require.ErrorIs(t, err, context.Canceled)
}

func TestQuad_DegenerateStationaryPointMerges(t *testing.T) {
	// Without strict mode the double point becomes one order-3 saddle.
	res, err := pathfinder.Quad(pathfinder.Finite(0), pathfinder.Finite(2), []complex128{1, -3, 3, -1}, 10, 20,
		pathfinder.WithGeometry())
	require.NoError(t, err)
	require.Len(t, res.Geometry.Stationary, 1)
	assert.Equal(t, 3, res.Geometry.Stationary[0].Order)

	const panels = 400
	h := 2.0 / panels
	var re, im float64
	for j := 0; j < panels; j++ {
		lo := float64(j) * h
		f := func(x float64) float64 { return 10 * (x - 1) * (x - 1) * (x - 1) }
		re += quad.Fixed(func(x float64) float64 { return math.Cos(f(x)) }, lo, lo+h, 16, nil, 0)
		im += quad.Fixed(func(x float64) float64 { return math.Sin(f(x)) }, lo, lo+h, 16, nil, 0)
	}
	assert.Less(t, relErr(sum(res.Weights), complex(re, im)), 1e-8)
}

func TestOptions_Panics(t *testing.T) {
	o := pathfinder.DefaultOptions()
	assert.Panics(t, func() { pathfinder.WithNumOscs(0)(&o) })
	assert.Panics(t, func() { pathfinder.WithNumRays(0)(&o) })
	assert.Panics(t, func() { pathfinder.WithBallMergeThresh(-1)(&o) })
	assert.Panics(t, func() { pathfinder.WithImagThresh(math.NaN())(&o) })
	assert.Panics(t, func() { pathfinder.WithContourStartThresh(-1e-3)(&o) })

	pathfinder.WithLogger(nil)(&o)
	assert.NotNil(t, o.Logger)
}

func TestWarningKind_String(t *testing.T) {
	assert.Equal(t, "root-find-failure", pathfinder.WarnRootFindFailure.String())
	assert.Equal(t, "trace-dropped", pathfinder.WarnTraceDropped.String())
	assert.Equal(t, "unresolved-chord", pathfinder.WarnUnresolvedChord.String())
	text, err := pathfinder.WarnMagnitudeOutOfRange.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "magnitude-out-of-range", string(text))
}

// oscillator returns z ↦ exp(i·k·g(z)).
func oscillator(coeffs []complex128, k float64) func(complex128) complex128 {
	phi := phase.MustPolynomial(coeffs...).Scale(complex(k, 0))
	return func(z complex128) complex128 { return cmplx.Exp(1i * phi.Eval(z)) }
}

// lineIntegral returns ∫ f(z) dz over the part t ∈ [lo, hi] of a + t(b − a),
// panel-wise Gauss–Legendre.
func lineIntegral(f func(complex128) complex128, a, b complex128, lo, hi float64, panels int) complex128 {
	d := b - a
	h := (hi - lo) / float64(panels)
	var re, im float64
	for j := 0; j < panels; j++ {
		t0 := lo + float64(j)*h
		re += quad.Fixed(func(t float64) float64 { return real(f(a+complex(t, 0)*d) * d) }, t0, t0+h, 16, nil, 0)
		im += quad.Fixed(func(t float64) float64 { return imag(f(a+complex(t, 0)*d) * d) }, t0, t0+h, 16, nil, 0)
	}

	return complex(re, im)
}

// polylineIntegral integrates f along the polyline, with finer panels
// close to every vertex.
func polylineIntegral(f func(complex128) complex128, pts ...complex128) complex128 {
	const eps = 1e-3
	var s complex128
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		s += lineIntegral(f, a, b, 0, eps, 200) +
			lineIntegral(f, a, b, eps, 1-eps, 2000) +
			lineIntegral(f, a, b, 1-eps, 1, 200)
	}

	return s
}

func requireNoWarning(t *testing.T, res *pathfinder.Result, kind pathfinder.WarningKind) {
	t.Helper()
	for _, w := range res.Warnings {
		require.NotEqual(t, kind, w.Kind, "%s", w)
	}
}

func TestQuad_OffOriginSaddlesAtHighFrequency(t *testing.T) {
	coeffs := []complex128{1, 0, -1, 0}
	s := complex(1/math.Sqrt(3), 0)
	for _, k := range []float64{1e3, 1e5} {
		res, err := pathfinder.Quad(pathfinder.Finite(-2), pathfinder.Finite(2), coeffs, complex(k, 0), 20)
		require.NoError(t, err, "k=%g", k)
		requireNoWarning(t, res, pathfinder.WarnTraceDropped)

		// Im(z³ − z) ≥ 0 along this path: it drops into the upper half plane
		// near ±2 and into the lower half between the saddles.
		want := polylineIntegral(oscillator(coeffs, k), -2, -1.3+0.3i, -s, -0.3i, s, 1.3+0.3i, 2)
		assert.Less(t, relErr(sum(res.Weights), want), 1e-7, "k=%g", k)
	}
}

func TestQuad_AiryBetweenValleys(t *testing.T) {
	// Both saddles of 10(z³ − z) fall in one ball, crossed by a chord.
	coeffs := []complex128{1, 0, -1, 0}
	res, err := pathfinder.Quad(pathfinder.Infinite(5*math.Pi/6), pathfinder.Infinite(math.Pi/6), coeffs, 10, 24)
	require.NoError(t, err)
	requireNoWarning(t, res, pathfinder.WarnUnresolvedChord)

	// The integrand has decayed below e^{-250} at radius 3 on both rays.
	f := oscillator(coeffs, 10)
	want := lineIntegral(f, 0, cmplx.Rect(3, math.Pi/6), 0, 1, 2000) -
		lineIntegral(f, 0, cmplx.Rect(3, 5*math.Pi/6), 0, 1, 2000)
	assert.InDelta(t, -0.8461, real(want), 1e-3)
	assert.Less(t, relErr(sum(res.Weights), want), 1e-7)
}

func TestQuad_DegreeEightAgainstDirectQuadrature(t *testing.T) {
	coeffs := []complex128{0.3 + 0.1i, -0.2, 0.5i, 1, -0.7, 0.2 - 0.3i, 1, 0.4, 0}
	const k = 15.0
	res, err := pathfinder.Quad(pathfinder.Finite(-1.2), pathfinder.Finite(1.1), coeffs, k, 24)
	require.NoError(t, err)
	requireNoWarning(t, res, pathfinder.WarnUnresolvedChord)

	want := lineIntegral(oscillator(coeffs, k), -1.2, 1.1, 0, 1, 4000)
	assert.Less(t, relErr(sum(res.Weights), want), 1e-6)
}

func TestQuad_InteriorBallsAgainstDirectQuadrature(t *testing.T) {
	// Saddles at 0 and ±1, all between the endpoints.
	coeffs := []complex128{1, 0, -2, 0, 0}
	const k = 40.0
	a, b := pathfinder.Finite(-1.7), pathfinder.Finite(1.3)
	want := lineIntegral(oscillator(coeffs, k), -1.7, 1.3, 0, 1, 4000)

	plain, err := pathfinder.Quad(a, b, coeffs, k, 24)
	require.NoError(t, err)
	interior, err := pathfinder.Quad(a, b, coeffs, k, 24, pathfinder.WithInteriorBalls())
	require.NoError(t, err)
	requireNoWarning(t, interior, pathfinder.WarnUnresolvedChord)

	assert.Less(t, relErr(sum(plain.Weights), want), 1e-6)
	assert.Less(t, relErr(sum(interior.Weights), want), 1e-6)
	assert.Less(t, relErr(sum(interior.Weights), sum(plain.Weights)), 1e-6)
}
