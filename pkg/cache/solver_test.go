package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flownet/pkg/model"
)

func testGraph() *model.GraphSpec {
	return &model.GraphSpec{
		Vertices: []string{"s", "a", "b", "t"},
		Edges: []model.EdgeSpec{
			{From: "s", To: "a", Capacity: 10},
			{From: "s", To: "b", Capacity: 5},
			{From: "a", To: "t", Capacity: 8},
			{From: "b", To: "t", Capacity: 7},
		},
		Source: "s",
		Sink:   "t",
	}
}

func TestGraphHashDeterministic(t *testing.T) {
	g1 := testGraph()
	g2 := testGraph()

	// shuffle vertex and edge order; hash must not change
	g2.Vertices = []string{"t", "b", "a", "s"}
	g2.Edges = []model.EdgeSpec{
		{From: "b", To: "t", Capacity: 7},
		{From: "s", To: "b", Capacity: 5},
		{From: "a", To: "t", Capacity: 8},
		{From: "s", To: "a", Capacity: 10},
	}

	assert.Equal(t, GraphHash(g1), GraphHash(g2))
}

func TestGraphHashSensitive(t *testing.T) {
	g1 := testGraph()

	g2 := testGraph()
	g2.Edges[0].Capacity = 11
	assert.NotEqual(t, GraphHash(g1), GraphHash(g2))

	g3 := testGraph()
	g3.Source = "a"
	assert.NotEqual(t, GraphHash(g1), GraphHash(g3))

	assert.Empty(t, GraphHash(nil))
}

func TestBuildSolveKey(t *testing.T) {
	key := BuildSolveKey("abc123", "scaling", "dfs")
	assert.Equal(t, "solve:scaling:dfs:abc123", key)
}

func TestSolverCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	sc := NewSolverCache(newTestCache(t), time.Minute)
	graph := testGraph()

	_, found, err := sc.Get(ctx, graph, "scaling", "dfs")
	require.NoError(t, err)
	assert.False(t, found)

	res := &model.SolveResult{
		MaxFlow:    15,
		Iterations: 3,
		Edges: []model.FlowEdge{
			{From: "s", To: "a", Flow: 8, Capacity: 10, Utilization: 0.8},
		},
	}
	require.NoError(t, sc.SetFromResult(ctx, graph, "scaling", "dfs", res, 0))

	cached, found, err := sc.Get(ctx, graph, "scaling", "dfs")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 15.0, cached.MaxFlow)
	assert.Equal(t, 3, cached.Iterations)
	require.Len(t, cached.Edges, 1)
	assert.Equal(t, "s", cached.Edges[0].From)
	assert.False(t, cached.ComputedAt.IsZero())

	// same graph, different algorithm misses
	_, found, err = sc.Get(ctx, graph, "ford_fulkerson", "dfs")
	require.NoError(t, err)
	assert.False(t, found)

	back := cached.ToResult()
	assert.Equal(t, res.MaxFlow, back.MaxFlow)
	assert.Equal(t, res.Edges, back.Edges)
}

func TestSolverCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	sc := NewSolverCache(newTestCache(t), time.Minute)
	graph := testGraph()

	require.NoError(t, sc.SetFromResult(ctx, graph, "scaling", "dfs", &model.SolveResult{MaxFlow: 15}, 0))
	require.NoError(t, sc.SetFromResult(ctx, graph, "ford_fulkerson", "bfs", &model.SolveResult{MaxFlow: 15}, 0))

	require.NoError(t, sc.Invalidate(ctx, graph))

	_, found, err := sc.Get(ctx, graph, "scaling", "dfs")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = sc.Get(ctx, graph, "ford_fulkerson", "bfs")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSolverCacheCorruptedEntry(t *testing.T) {
	ctx := context.Background()
	backing := newTestCache(t)
	sc := NewSolverCache(backing, time.Minute)
	graph := testGraph()

	key := BuildSolveKey(GraphHash(graph), "scaling", "dfs")
	require.NoError(t, backing.Set(ctx, key, []byte("{not json"), time.Minute))

	_, found, err := sc.Get(ctx, graph, "scaling", "dfs")
	require.NoError(t, err)
	assert.False(t, found)

	// corrupted entry was dropped
	ok, _ := backing.Exists(ctx, key)
	assert.False(t, ok)
}
