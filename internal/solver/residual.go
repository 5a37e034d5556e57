package solver

import (
	"flownet/internal/graph"
)

// residualOf returns the edge running opposite to e. A forward edge
// that already exists in the reverse direction doubles as the residual
// counterpart. When no reverse edge exists, a zero-capacity residual
// edge is inserted into the network and persists for the rest of the
// computation.
func (s *Solver) residualOf(e *graph.Edge) *graph.Edge {
	if r := s.network.EdgeBetween(e.To, e.From); r != nil {
		return r
	}
	return s.network.InsertResidual(e.To, e.From)
}
