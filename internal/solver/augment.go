package solver

import (
	"flownet/internal/graph"
	"flownet/pkg/apperror"
	"flownet/pkg/domain"
)

// augment pushes the bottleneck of the path through the network: each
// path edge loses the bottleneck from its remaining capacity and its
// residual counterpart gains it. The bottleneck is added to the solver's
// accumulated total. This is the only place capacities and the total
// are mutated.
//
// The path must be a connected source-to-sink chain in sink-to-source
// order, as produced by findPath. An empty or broken path is an error.
func (s *Solver) augment(path []*graph.Edge) (float64, error) {
	if err := s.validatePath(path); err != nil {
		return 0, err
	}

	bottleneck := path[0].Capacity
	for _, e := range path[1:] {
		bottleneck = domain.Min(bottleneck, e.Capacity)
	}

	for _, e := range path {
		e.Capacity -= bottleneck
		s.residualOf(e).Capacity += bottleneck
	}

	s.total += bottleneck
	return bottleneck, nil
}

// validatePath checks the chain precondition of augment.
func (s *Solver) validatePath(path []*graph.Edge) error {
	if len(path) == 0 {
		return apperror.ErrEmptyPath
	}

	for i, e := range path {
		if e == nil {
			return apperror.New(apperror.CodeBrokenPath, "augmenting path contains a nil edge").
				WithDetails("index", i)
		}
	}

	if path[0].To != s.sink {
		return apperror.New(apperror.CodeBrokenPath, "augmenting path does not end at the sink")
	}
	if path[len(path)-1].From != s.source {
		return apperror.New(apperror.CodeBrokenPath, "augmenting path does not start at the source")
	}
	for i := 0; i < len(path)-1; i++ {
		if path[i].From != path[i+1].To {
			return apperror.New(apperror.CodeBrokenPath, "augmenting path edges are not connected").
				WithDetails("index", i)
		}
	}

	return nil
}
