package contour_test

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/pathfinder/contour"
	"github.com/katalvlaran/pathfinder/cover"
	"github.com/katalvlaran/pathfinder/phase"
)

// quadratic returns the analysed phase ω·z² and its covering with the
// endpoints ±1.
func quadratic(t *testing.T, omega float64) (phase.Analysis, cover.Covering, []complex128) {
	t.Helper()
	a, err := phase.Analyze(phase.MustPolynomial(1, 0, 0).Scale(complex(omega, 0)))
	require.NoError(t, err)
	ends := []complex128{-1, 1}
	cov, err := cover.Cover(context.Background(), a, ends, cover.DefaultConfig(), cover.SerialSearcher{})
	require.NoError(t, err)

	return a, cov, ends
}

func TestExits_QuadraticSaddle(t *testing.T) {
	phi := phase.MustPolynomial(30, 0, 0)
	ball := cover.Ball{Center: 0, Radius: 0.5}

	exits := contour.Exits(phi, ball, contour.DefaultSamples)
	require.Len(t, exits, 2)
	assert.InDelta(t, -3*math.Pi/4, cmplx.Phase(exits[0]), 1e-6)
	assert.InDelta(t, math.Pi/4, cmplx.Phase(exits[1]), 1e-6)
	for _, z := range exits {
		assert.InDelta(t, 0.5, cmplx.Abs(z), 1e-12)
	}
}

func TestExits_ShiftedCubic(t *testing.T) {
	// Φ = (z−c)³ has three descent directions at c.
	c := complex(0.3, -0.2)
	phi := phase.MustPolynomial(1, -3*c, 3*c*c, -c*c*c)
	exits := contour.Exits(phi, cover.Ball{Center: c, Radius: 0.25}, 96)
	require.Len(t, exits, 3)
	for _, z := range exits {
		theta := cmplx.Phase(z - c)
		// sin(3θ) = 1 at a maximum of Im (z−c)³.
		assert.InDelta(t, 1, math.Sin(3*theta), 1e-9)
	}
}

func TestTrace_RunsToValley(t *testing.T) {
	a, cov, _ := quadratic(t, 1)
	tr := contour.Tracer{
		Phase: a.Phase, Valleys: a.Valleys, Balls: cov.Balls,
		NoReturn: 5, Scale: 0.05, PMax: 40, MaxSteps: 1000,
	}
	z0 := cmplx.Rect(cov.Balls[0].Radius, math.Pi/4)

	seg, err := tr.Trace(z0, 0)
	require.NoError(t, err)
	assert.True(t, seg.ToValley())
	want, ok := a.ValleyOf(math.Pi / 4)
	require.True(t, ok)
	assert.Equal(t, want, seg.Valley)
	assert.Equal(t, 0, seg.FromBall)
	assert.Equal(t, -1, seg.ToBall)

	phi0 := a.Phase.Eval(z0)
	for _, pt := range seg.Trace {
		res := a.Phase.Eval(pt.Z) - phi0 - complex(0, pt.P)
		assert.Less(t, cmplx.Abs(res), 1e-9, "p=%g", pt.P)
		assert.InDelta(t, math.Pi/4, cmplx.Phase(pt.Z), 1e-9)
	}
	assert.Greater(t, seg.ArcLength, 0.0)
}

func TestTrace_StopsAtForeignBall(t *testing.T) {
	// Φ = z², path from 0.3·e^{iπ/4} runs out along the ray; p = s² − 0.09.
	phi := phase.MustPolynomial(1, 0, 0)
	dir := cmplx.Rect(1, math.Pi/4)
	tr := contour.Tracer{
		Phase:    phi,
		Valleys:  phase.Valleys(phi),
		Balls:    []cover.Ball{{Center: dir, Radius: 0.2}},
		NoReturn: 10, Scale: 0.01, PMax: 40, MaxSteps: 1000,
	}

	seg, err := tr.Trace(0.3*dir, -1)
	require.NoError(t, err)
	assert.False(t, seg.ToValley())
	assert.Equal(t, 0, seg.ToBall)
	assert.InDelta(t, 0.8, cmplx.Abs(seg.End), 1e-6)
	assert.InDelta(t, 0.64-0.09, seg.PEnd, 1e-6)
	assert.True(t, tr.Balls[0].Contains(seg.End))
	assert.Equal(t, seg.End, seg.Trace[len(seg.Trace)-1].Z)
}

func TestTrace_StepCap(t *testing.T) {
	phi := phase.MustPolynomial(1, 0, 0)
	tr := contour.Tracer{
		Phase: phi, Valleys: phase.Valleys(phi),
		NoReturn: 1e6, Scale: 1e-3, PMax: 1e9, MaxSteps: 3,
	}
	_, err := tr.Trace(0.5, -1)
	require.ErrorIs(t, err, contour.ErrTraceFailed)

	_, err = tr.Trace(0, -1)
	require.ErrorIs(t, err, contour.ErrTraceFailed, "Φ' vanishes at the saddle")
}

func TestSegment_LocateMatchesClosedForm(t *testing.T) {
	// From z0 = −1 on Φ = z²: z(p) = −sqrt(1 + i·p).
	phi := phase.MustPolynomial(1, 0, 0)
	tr := contour.Tracer{
		Phase: phi, Valleys: phase.Valleys(phi),
		NoReturn: 4, Scale: 0.05, PMax: 40, MaxSteps: 1000,
	}
	seg, err := tr.Trace(-1, -1)
	require.NoError(t, err)
	require.True(t, seg.ToValley())

	for _, p := range []float64{0, 0.37, 2, 11, 60, 150} {
		z, ok := seg.Locate(phi, p)
		require.True(t, ok, "p=%g", p)
		want := -cmplx.Sqrt(complex(1, p))
		assert.InDelta(t, 0, cmplx.Abs(z-want), 1e-9*(1+cmplx.Abs(want)), "p=%g", p)
	}
}

func TestBuild_Quadratic(t *testing.T) {
	defer goleak.VerifyNone(t)

	a, cov, ends := quadratic(t, 50)
	ctrs, err := contour.Build(context.Background(), a, cov, ends, contour.DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, ctrs.Dropped)
	require.Len(t, ctrs.Segments, 4)

	up, _ := a.ValleyOf(math.Pi / 4)
	down, _ := a.ValleyOf(-3 * math.Pi / 4)
	want := map[int]int{-1: 0, 0: 0, 1: 0}
	for _, s := range ctrs.Segments {
		require.True(t, s.ToValley())
		want[s.FromEndpoint]++
		switch s.FromEndpoint {
		case 0:
			assert.Equal(t, down, s.Valley, "−1 drains into the lower-left valley")
		case 1:
			assert.Equal(t, up, s.Valley, "+1 drains into the upper-right valley")
		default:
			assert.Equal(t, 0, s.FromBall)
		}
	}
	assert.Equal(t, map[int]int{-1: 2, 0: 1, 1: 1}, want)

	cfg := contour.DefaultConfig()
	cfg.Workers = 4
	par, err := contour.Build(context.Background(), a, cov, ends, cfg)
	require.NoError(t, err)
	if diff := cmp.Diff(ctrs.Segments, par.Segments); diff != "" {
		t.Fatalf("parallel build differs (-serial +parallel):\n%s", diff)
	}
}

func TestBuild_OffOriginSaddlesAtHighFrequency(t *testing.T) {
	// k(z³ − z): saddles at ±1/sqrt(3), valleys at π/6, 5π/6 and −π/2. Each
	// saddle drains into the lower valley and into the upper one on its side.
	for _, k := range []float64{1e3, 1e5} {
		a, err := phase.Analyze(phase.MustPolynomial(1, 0, -1, 0).Scale(complex(k, 0)))
		require.NoError(t, err)
		ends := []complex128{-2, 2}
		cov, err := cover.Cover(context.Background(), a, ends, cover.DefaultConfig(), cover.SerialSearcher{})
		require.NoError(t, err)
		require.Len(t, cov.Balls, 2, "k=%g", k)

		ctrs, err := contour.Build(context.Background(), a, cov, ends, contour.DefaultConfig())
		require.NoError(t, err)
		require.Empty(t, ctrs.Dropped, "k=%g", k)

		down, _ := a.ValleyOf(-math.Pi / 2)
		left, _ := a.ValleyOf(5 * math.Pi / 6)
		right, _ := a.ValleyOf(math.Pi / 6)
		got := map[int][]int{}
		for _, s := range ctrs.Segments {
			require.True(t, s.ToValley(), "k=%g", k)
			assert.Greater(t, cmplx.Abs(s.End), ctrs.NoReturn, "k=%g", k)
			v, ok := a.ValleyOf(cmplx.Phase(s.End))
			require.True(t, ok, "k=%g", k)
			assert.Equal(t, v, s.Valley, "k=%g end=%v", k, s.End)
			if s.FromBall >= 0 {
				got[s.FromBall] = append(got[s.FromBall], s.Valley)
			}
		}
		for bi, b := range cov.Balls {
			side := right
			if real(b.Center) < 0 {
				side = left
			}
			assert.ElementsMatch(t, []int{down, side}, got[bi], "k=%g ball %v", k, b.Center)
		}
	}
}

func TestBuild_EndpointInsideBallHasNoConnector(t *testing.T) {
	a, err := phase.Analyze(phase.MustPolynomial(1, 0, 0).Scale(2))
	require.NoError(t, err)
	ends := []complex128{0.1, 3}
	cov, err := cover.Cover(context.Background(), a, ends, cover.DefaultConfig(), cover.SerialSearcher{})
	require.NoError(t, err)
	require.Equal(t, 0, cov.EndpointOwner[0])

	ctrs, err := contour.Build(context.Background(), a, cov, ends, contour.DefaultConfig())
	require.NoError(t, err)
	for _, s := range ctrs.Segments {
		assert.NotEqual(t, 0, s.FromEndpoint)
	}
}

func TestBuild_BadConfig(t *testing.T) {
	a, cov, ends := quadratic(t, 1)
	cfg := contour.DefaultConfig()
	cfg.Samples = 2
	_, err := contour.Build(context.Background(), a, cov, ends, cfg)
	require.ErrorIs(t, err, contour.ErrBadConfig)
}

func TestNewStraight(t *testing.T) {
	s := contour.NewStraight(1, 1+2i)
	assert.Equal(t, contour.Straight, s.Kind)
	assert.Equal(t, 2.0, s.ArcLength)
	assert.Equal(t, "straight", s.Kind.String())
	assert.False(t, s.ToValley())
}
