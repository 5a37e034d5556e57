package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flownet/internal/solver"
	"flownet/pkg/apperror"
	"flownet/pkg/model"
)

func validSpec() *model.GraphSpec {
	return &model.GraphSpec{
		Vertices: []string{"s", "a", "b", "t"},
		Edges: []model.EdgeSpec{
			{From: "s", To: "a", Capacity: 10},
			{From: "s", To: "b", Capacity: 10},
			{From: "a", To: "t", Capacity: 10},
			{From: "b", To: "t", Capacity: 10},
			{From: "a", To: "b", Capacity: 1},
		},
	}
}

func TestToNetwork(t *testing.T) {
	n, err := ToNetwork(validSpec())
	require.NoError(t, err)
	assert.Equal(t, 4, n.VertexCount())
	assert.Equal(t, 5, n.EdgeCount())

	s, err := n.VertexByName("s")
	require.NoError(t, err)
	a, err := n.VertexByName("a")
	require.NoError(t, err)
	sa := n.EdgeBetween(s, a)
	require.NotNil(t, sa)
	assert.Equal(t, 10.0, sa.Capacity)
}

func TestToNetworkNil(t *testing.T) {
	_, err := ToNetwork(nil)
	assert.True(t, apperror.Is(err, apperror.CodeNilInput))
}

func TestToNetworkEmpty(t *testing.T) {
	_, err := ToNetwork(&model.GraphSpec{})
	require.Error(t, err)

	var verrs *apperror.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, apperror.CodeEmptyGraph, verrs.First().Code)
}

func TestToNetworkCollectsAllErrors(t *testing.T) {
	spec := &model.GraphSpec{
		Vertices: []string{"s", "t"},
		Edges: []model.EdgeSpec{
			{From: "s", To: "ghost", Capacity: 1},
			{From: "s", To: "t", Capacity: -2},
			{From: "phantom", To: "t", Capacity: 1},
		},
	}

	_, err := ToNetwork(spec)
	require.Error(t, err)

	var verrs *apperror.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs.Errors, 3)
	codes := make([]apperror.ErrorCode, 0, len(verrs.Errors))
	for _, e := range verrs.Errors {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, apperror.CodeDanglingEdge)
	assert.Contains(t, codes, apperror.CodeNegativeCapacity)
}

func TestToNetworkDuplicateVertexIsWarning(t *testing.T) {
	spec := &model.GraphSpec{
		Vertices: []string{"s", "s", "t"},
		Edges: []model.EdgeSpec{
			{From: "s", To: "t", Capacity: 3},
		},
	}

	n, err := ToNetwork(spec)
	require.NoError(t, err)
	assert.Equal(t, 2, n.VertexCount())
}

func TestToNetworkEmptyVertexName(t *testing.T) {
	spec := &model.GraphSpec{
		Vertices: []string{"s", "", "t"},
	}

	_, err := ToNetwork(spec)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidGraph))
}

func TestToFlowEdges(t *testing.T) {
	n, err := ToNetwork(validSpec())
	require.NoError(t, err)

	sol, err := solver.New(n, nil)
	require.NoError(t, err)
	flow, err := sol.MaxFlow(context.Background())
	require.NoError(t, err)
	require.Equal(t, 20.0, flow)

	edges := ToFlowEdges(n)

	total := 0.0
	for _, e := range edges {
		assert.False(t, e.Flow > e.Capacity)
		assert.InDelta(t, e.Flow/e.Capacity, e.Utilization, 1e-9)
		if e.From == "s" {
			total += e.Flow
		}
	}
	assert.Equal(t, 20.0, total)
}

func TestToFlowEdgesSkipsIdleAndResidual(t *testing.T) {
	n, err := ToNetwork(&model.GraphSpec{
		Vertices: []string{"s", "a", "t"},
		Edges: []model.EdgeSpec{
			{From: "s", To: "t", Capacity: 5},
			{From: "s", To: "a", Capacity: 7},
		},
	})
	require.NoError(t, err)

	sol, err := solver.New(n, nil)
	require.NoError(t, err)
	_, err = sol.MaxFlow(context.Background())
	require.NoError(t, err)

	edges := ToFlowEdges(n)
	require.Len(t, edges, 1)
	assert.Equal(t, "s", edges[0].From)
	assert.Equal(t, "t", edges[0].To)
	assert.Equal(t, 5.0, edges[0].Flow)
	assert.Equal(t, 1.0, edges[0].Utilization)
}
