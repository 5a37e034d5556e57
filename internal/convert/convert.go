// Package convert maps between the wire-level request and response types
// and the in-memory flow network the solver operates on.
package convert

import (
	"errors"
	"fmt"

	"flownet/internal/graph"
	"flownet/pkg/apperror"
	"flownet/pkg/domain"
	"flownet/pkg/model"
)

// ToNetwork builds a flow network from a graph specification. All
// problems with the specification are collected into a single
// ValidationErrors value instead of stopping at the first one.
func ToNetwork(spec *model.GraphSpec) (*graph.Network, error) {
	if spec == nil {
		return nil, apperror.New(apperror.CodeNilInput, "graph specification is nil")
	}

	verrs := apperror.NewValidationErrors()

	if len(spec.Vertices) == 0 {
		verrs.AddError(apperror.CodeEmptyGraph, "graph has no vertices")
	}

	n := graph.NewNetwork()
	byName := make(map[string]*graph.Vertex, len(spec.Vertices))
	for _, name := range spec.Vertices {
		if name == "" {
			verrs.AddError(apperror.CodeInvalidGraph, "vertex name is empty")
			continue
		}
		if _, dup := byName[name]; dup {
			verrs.Add(apperror.NewWarning(apperror.CodeInvalidGraph,
				fmt.Sprintf("vertex %q is declared more than once", name)).WithField(name))
			continue
		}
		byName[name] = n.AddVertex(name)
	}

	for i, e := range spec.Edges {
		from, ok := byName[e.From]
		if !ok {
			verrs.Add(apperror.New(apperror.CodeDanglingEdge,
				fmt.Sprintf("edge %d references unknown vertex %q", i, e.From)).
				WithDetails("index", i).WithField(e.From))
			continue
		}
		to, ok := byName[e.To]
		if !ok {
			verrs.Add(apperror.New(apperror.CodeDanglingEdge,
				fmt.Sprintf("edge %d references unknown vertex %q", i, e.To)).
				WithDetails("index", i).WithField(e.To))
			continue
		}
		if e.Capacity < 0 {
			verrs.Add(apperror.New(apperror.CodeNegativeCapacity,
				fmt.Sprintf("edge %d has negative capacity %g", i, e.Capacity)).
				WithDetails("index", i).WithField(e.From))
			continue
		}

		var payload any
		if e.Label != "" {
			payload = e.Label
		}
		if _, err := n.InsertEdge(from, to, e.Capacity, payload); err != nil {
			var appErr *apperror.Error
			if errors.As(err, &appErr) {
				verrs.Add(appErr)
			} else {
				verrs.AddError(apperror.CodeInvalidGraph, err.Error())
			}
		}
	}

	if verrs.HasErrors() {
		return nil, verrs
	}
	return n, nil
}

// ToFlowEdges extracts the committed flow from a solved network. Only
// forward edges carrying flow above Epsilon are reported. Utilization is
// the flow as a fraction of the edge's original capacity.
func ToFlowEdges(n *graph.Network) []model.FlowEdge {
	var result []model.FlowEdge

	for _, e := range n.Edges() {
		if e.IsResidual || e.Flow() < domain.Epsilon {
			continue
		}

		utilization := 0.0
		if e.OriginalCapacity > 0 {
			utilization = e.Flow() / e.OriginalCapacity
		}

		result = append(result, model.FlowEdge{
			From:        e.From.Name,
			To:          e.To.Name,
			Flow:        e.Flow(),
			Capacity:    e.OriginalCapacity,
			Utilization: utilization,
		})
	}

	return result
}
