package solver

import (
	"flownet/internal/graph"
)

// findPath searches for an augmenting path from source to sink over
// edges whose remaining capacity meets the threshold, following edges
// in the outgoing direction only.
//
// The frontier holds edges rather than vertices: popping an edge claims
// its head vertex, and the visited map records the edge each vertex was
// reached by, so the path can be rebuilt backward from the sink. The
// returned slice is in sink-to-source order; nil means no path exists.
func (s *Solver) findPath(delta float64) []*graph.Edge {
	visited := map[*graph.Vertex]*graph.Edge{
		s.source: nil,
	}

	var frontier []*graph.Edge
	for _, e := range s.source.Edges {
		if e.From == s.source && eligible(e, delta) {
			frontier = append(frontier, e)
		}
	}

	for len(frontier) > 0 {
		var e *graph.Edge
		if s.opts.Traversal == TraversalBFS {
			e = frontier[0]
			frontier = frontier[1:]
		} else {
			e = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		}

		next := e.To
		if _, seen := visited[next]; seen {
			continue
		}
		visited[next] = e

		if next == s.sink {
			return reconstruct(visited, s.source, s.sink)
		}

		for _, out := range next.Edges {
			if out.From != next || !eligible(out, delta) {
				continue
			}
			if _, seen := visited[out.To]; seen {
				continue
			}
			frontier = append(frontier, out)
		}
	}

	return nil
}

// reconstruct walks the visited map backward from sink to source and
// returns the chain of edges in sink-to-source order.
func reconstruct(visited map[*graph.Vertex]*graph.Edge, source, sink *graph.Vertex) []*graph.Edge {
	var path []*graph.Edge
	for v := sink; v != source; {
		e := visited[v]
		path = append(path, e)
		v = e.From
	}
	return path
}
