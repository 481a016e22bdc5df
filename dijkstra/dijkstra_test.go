// Package dijkstra_test contains unit tests for the Dijkstra implementation.
// These tests validate correct behavior under various configurations, including
// basic functionality, directed graphs, MaxDistance, InfEdgeThreshold,
// path reconstruction and tie-breaking.
package dijkstra_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pathfinder/core"
	"github.com/katalvlaran/pathfinder/dijkstra"
)

// Vertex names used by the small test graphs.
const (
	A = iota
	B
	C
	D
	E
)

// graphOf builds a graph with n vertices and the given (from, to, w) arcs;
// the payload of arc i is i.
func graphOf(t *testing.T, directed bool, n int, arcs ...[3]float64) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithDirected(directed))
	g.AddVertices(n)
	for i, a := range arcs {
		_, err := g.AddEdge(int(a[0]), int(a[1]), a[2], i)
		require.NoError(t, err)
	}

	return g
}

// ------------------------------------------------------------------------
// 1. Validation Tests: Ensure errors are returned for invalid inputs.
// ------------------------------------------------------------------------

func TestDijkstra_EmptySource(t *testing.T) {
	g := core.NewGraph()
	_, _, err := dijkstra.Dijkstra(g)
	require.ErrorIs(t, err, dijkstra.ErrEmptySource)
}

func TestDijkstra_NilGraph(t *testing.T) {
	// Without a source, ErrEmptySource has priority over ErrNilGraph.
	_, _, err := dijkstra.Dijkstra(nil)
	require.ErrorIs(t, err, dijkstra.ErrEmptySource)

	_, _, err = dijkstra.Dijkstra(nil, dijkstra.Source(0))
	require.ErrorIs(t, err, dijkstra.ErrNilGraph)
}

func TestDijkstra_SourceNotFound(t *testing.T) {
	g := graphOf(t, true, 2)
	_, _, err := dijkstra.Dijkstra(g, dijkstra.Source(5))
	require.ErrorIs(t, err, dijkstra.ErrVertexNotFound)
}

func TestDijkstra_OptionPanics(t *testing.T) {
	assert.Panics(t, func() { dijkstra.WithMaxDistance(-1)(&dijkstra.Options{}) })
	assert.Panics(t, func() { dijkstra.WithMaxDistance(math.NaN())(&dijkstra.Options{}) })
	assert.Panics(t, func() { dijkstra.WithInfEdgeThreshold(0)(&dijkstra.Options{}) })
}

// ------------------------------------------------------------------------
// 2. Basic Functionality: Small graphs, path correctness without and with ReturnPath.
// ------------------------------------------------------------------------

func TestDijkstra_SimpleTriangle_NoPath(t *testing.T) {
	// Undirected triangle: A—B(1), B—C(2), A—C(5).
	g := graphOf(t, false, 3, [3]float64{A, B, 1}, [3]float64{B, C, 2}, [3]float64{A, C, 5})

	dist, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(A))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 3}, dist)
	assert.Nil(t, prev, "prev should be nil when ReturnPath=false")
}

func TestDijkstra_SimpleTriangle_WithPath(t *testing.T) {
	g := graphOf(t, false, 3, [3]float64{A, B, 1}, [3]float64{B, C, 2}, [3]float64{A, C, 5})

	dist, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(A), dijkstra.WithReturnPath())
	require.NoError(t, err)
	assert.Equal(t, 3.0, dist[C])

	path, err := dijkstra.PathTo(g, prev, A, C)
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.Equal(t, []int{A, B}, []int{path[0].From, path[1].From})
	assert.Equal(t, []int{0, 1}, []int{path[0].Payload, path[1].Payload})
	assert.False(t, path[0].Reverse)
}

func TestDijkstra_ReverseArcOnPath(t *testing.T) {
	// The only way from C to A runs against the insertion direction of both edges.
	g := graphOf(t, false, 3, [3]float64{A, B, 1}, [3]float64{B, C, 1})

	_, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(C), dijkstra.WithReturnPath())
	require.NoError(t, err)
	path, err := dijkstra.PathTo(g, prev, C, A)
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.True(t, path[0].Reverse)
	assert.Equal(t, 1, path[0].Payload)
	assert.Equal(t, 0, path[1].Payload)
}

func TestPathTo_SourceIsEmpty(t *testing.T) {
	g := graphOf(t, true, 2, [3]float64{A, B, 1})
	_, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(A), dijkstra.WithReturnPath())
	require.NoError(t, err)

	path, err := dijkstra.PathTo(g, prev, A, A)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestPathTo_Unreachable(t *testing.T) {
	g := graphOf(t, true, 3, [3]float64{A, B, 1})
	dist, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(A), dijkstra.WithReturnPath())
	require.NoError(t, err)
	assert.True(t, math.IsInf(dist[C], 1))

	_, err = dijkstra.PathTo(g, prev, A, C)
	require.ErrorIs(t, err, dijkstra.ErrUnreachable)
	_, err = dijkstra.PathTo(g, prev, A, 9)
	require.ErrorIs(t, err, dijkstra.ErrVertexNotFound)
}

// ------------------------------------------------------------------------
// 3. Directed Graph Tests: Ensure correct handling of one-way edges.
// ------------------------------------------------------------------------

func TestDijkstra_MediumDirectedGraph(t *testing.T) {
	// A→B(2), A→C(1), C→B(1), B→D(3), C→D(5)
	g := graphOf(t, true, 4,
		[3]float64{A, B, 2}, [3]float64{A, C, 1}, [3]float64{C, B, 1},
		[3]float64{B, D, 3}, [3]float64{C, D, 5})

	dist, _, err := dijkstra.Dijkstra(g, dijkstra.Source(A))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 1, 5}, dist)

	// Nothing leads back into A.
	dist, _, err = dijkstra.Dijkstra(g, dijkstra.Source(D))
	require.NoError(t, err)
	assert.True(t, math.IsInf(dist[A], 1))
}

func TestDijkstra_FractionalWeights(t *testing.T) {
	// Two routes of cost 2.001 and 2.0005: the cheaper must win.
	g := graphOf(t, true, 4,
		[3]float64{A, B, 1}, [3]float64{B, D, 1.001},
		[3]float64{A, C, 1.0005}, [3]float64{C, D, 1})

	dist, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(A), dijkstra.WithReturnPath())
	require.NoError(t, err)
	assert.InDelta(t, 2.0005, dist[D], 1e-15)
	path, err := dijkstra.PathTo(g, prev, A, D)
	require.NoError(t, err)
	assert.Equal(t, C, path[0].To)
}

func TestDijkstra_TiesFollowInsertionOrder(t *testing.T) {
	g := graphOf(t, true, 4,
		[3]float64{A, B, 1}, [3]float64{A, C, 1},
		[3]float64{B, D, 1}, [3]float64{C, D, 1})

	for i := 0; i < 10; i++ {
		_, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(A), dijkstra.WithReturnPath())
		require.NoError(t, err)
		path, err := dijkstra.PathTo(g, prev, A, D)
		require.NoError(t, err)
		assert.Equal(t, B, path[0].To)
	}
}

// ------------------------------------------------------------------------
// 4. MaxDistance and InfEdgeThreshold.
// ------------------------------------------------------------------------

func TestDijkstra_MaxDistanceLimits(t *testing.T) {
	// A—B(1)—C(1)—D(1)
	g := graphOf(t, false, 4, [3]float64{A, B, 1}, [3]float64{B, C, 1}, [3]float64{C, D, 1})

	dist, _, err := dijkstra.Dijkstra(g, dijkstra.Source(A), dijkstra.WithMaxDistance(1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, dist[A])
	assert.Equal(t, 1.0, dist[B])
	assert.True(t, math.IsInf(dist[C], 1))
	assert.True(t, math.IsInf(dist[D], 1))
}

func TestDijkstra_InfThreshold(t *testing.T) {
	// A—B(10), B—C(20), A—C(+Inf)
	g := graphOf(t, false, 3, [3]float64{A, B, 10}, [3]float64{B, C, 20}, [3]float64{A, C, math.Inf(1)})

	dist, _, err := dijkstra.Dijkstra(g, dijkstra.Source(A))
	require.NoError(t, err)
	assert.Equal(t, 30.0, dist[C], "infinite arcs are impassable by default")

	dist, _, err = dijkstra.Dijkstra(g, dijkstra.Source(A), dijkstra.WithInfEdgeThreshold(20))
	require.NoError(t, err)
	assert.Equal(t, 10.0, dist[B])
	assert.True(t, math.IsInf(dist[C], 1))
}

func TestDijkstra_SingleVertex(t *testing.T) {
	g := graphOf(t, true, 1)
	dist, prev, err := dijkstra.Dijkstra(g, dijkstra.Source(A), dijkstra.WithReturnPath())
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, dist)
	assert.Equal(t, []int{-1}, prev)
}

func TestDijkstra_ErrorsAreSentinels(t *testing.T) {
	_, _, err := dijkstra.Dijkstra(core.NewGraph(), dijkstra.Source(0))
	assert.True(t, errors.Is(err, dijkstra.ErrVertexNotFound))
}
