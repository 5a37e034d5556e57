// Package solver computes the maximum flow between a named source and
// sink of a flow network using the Ford-Fulkerson augmenting-path method,
// with an optional capacity-scaling refinement.
//
// # Thread Safety
//
// A Solver is NOT thread-safe and mutates the network it was built on.
// Each goroutine should work with its own network and solver.
//
// # Context Support
//
// MaxFlow and ScalingMaxFlow honor context cancellation. On cancellation
// the partial flow accumulated so far is returned together with the error.
package solver

import (
	"context"
	"errors"

	"flownet/internal/graph"
	"flownet/pkg/apperror"
	"flownet/pkg/domain"
)

// =============================================================================
// Options
// =============================================================================

// Traversal selects the augmenting-path search strategy.
type Traversal string

const (
	// TraversalDFS explores depth-first (LIFO frontier). Default.
	TraversalDFS Traversal = "dfs"
	// TraversalBFS explores breadth-first (FIFO frontier), yielding
	// shortest augmenting paths (Edmonds-Karp behavior).
	TraversalBFS Traversal = "bfs"
)

// Options configures a Solver.
//
// Zero values are safe to use; DefaultOptions() fills in the defaults.
// Options chain in the builder style:
//
//	opts := DefaultOptions().
//	    WithTraversal(TraversalBFS).
//	    WithSourceName("origin")
type Options struct {
	// SourceName is the name of the source vertex. Default: "s".
	SourceName string

	// SinkName is the name of the sink vertex. Default: "t".
	SinkName string

	// Traversal is the path search strategy. Default: TraversalDFS.
	Traversal Traversal

	// MaxIterations limits the number of augmenting paths.
	// Zero or negative means unlimited. Default: 0.
	MaxIterations int
}

// DefaultOptions returns options with the conventional defaults.
func DefaultOptions() *Options {
	return &Options{
		SourceName: "s",
		SinkName:   "t",
		Traversal:  TraversalDFS,
	}
}

// WithSourceName sets the source vertex name and returns the options for chaining.
func (o *Options) WithSourceName(name string) *Options {
	o.SourceName = name
	return o
}

// WithSinkName sets the sink vertex name and returns the options for chaining.
func (o *Options) WithSinkName(name string) *Options {
	o.SinkName = name
	return o
}

// WithTraversal sets the search strategy and returns the options for chaining.
func (o *Options) WithTraversal(t Traversal) *Options {
	o.Traversal = t
	return o
}

// WithMaxIterations sets the iteration limit and returns the options for chaining.
func (o *Options) WithMaxIterations(max int) *Options {
	o.MaxIterations = max
	return o
}

// =============================================================================
// Solver
// =============================================================================

// Solver runs max-flow computations on one network. Source and sink are
// resolved once at construction; the network must not be mutated by the
// caller afterwards.
type Solver struct {
	network *graph.Network
	source  *graph.Vertex
	sink    *graph.Vertex
	opts    *Options

	total      float64
	iterations int
}

// New creates a solver for the network, resolving source and sink by
// name. Missing or ambiguous endpoints fail here, not at solve time.
func New(network *graph.Network, opts *Options) (*Solver, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.SourceName == "" {
		opts.SourceName = "s"
	}
	if opts.SinkName == "" {
		opts.SinkName = "t"
	}
	if opts.Traversal == "" {
		opts.Traversal = TraversalDFS
	}

	if network == nil {
		return nil, apperror.ErrNilNetwork
	}
	if network.VertexCount() == 0 {
		return nil, apperror.ErrEmptyGraph
	}

	source, err := network.VertexByName(opts.SourceName)
	if err != nil {
		if apperror.Is(err, apperror.CodeNotFound) {
			return nil, apperror.NewWithField(apperror.CodeMissingSource,
				"no vertex with the source name exists", opts.SourceName)
		}
		return nil, err
	}

	sink, err := network.VertexByName(opts.SinkName)
	if err != nil {
		if apperror.Is(err, apperror.CodeNotFound) {
			return nil, apperror.NewWithField(apperror.CodeMissingSink,
				"no vertex with the sink name exists", opts.SinkName)
		}
		return nil, err
	}

	if source == sink {
		return nil, apperror.ErrSourceEqualsSink
	}

	return &Solver{
		network: network,
		source:  source,
		sink:    sink,
		opts:    opts,
	}, nil
}

// Total returns the flow accumulated so far.
func (s *Solver) Total() float64 {
	return s.total
}

// Iterations returns the number of augmenting paths applied so far.
func (s *Solver) Iterations() int {
	return s.iterations
}

// Source returns the resolved source vertex.
func (s *Solver) Source() *graph.Vertex {
	return s.source
}

// Sink returns the resolved sink vertex.
func (s *Solver) Sink() *graph.Vertex {
	return s.sink
}

// =============================================================================
// Entry Points
// =============================================================================

// checkInterval is how many augmentations pass between context checks.
const checkInterval = 100

// MaxFlow runs the plain Ford-Fulkerson loop: find an augmenting path,
// push its bottleneck, repeat until no path remains. Returns the total
// flow. Calling it again after completion finds no path and returns the
// same total.
func (s *Solver) MaxFlow(ctx context.Context) (float64, error) {
	if err := s.runPhase(ctx, 1); err != nil {
		return s.total, err
	}
	return s.total, nil
}

// ScalingMaxFlow runs Ford-Fulkerson with capacity scaling: augmenting
// paths are searched at a decreasing capacity threshold delta, starting
// from the largest power of two below the source's maximum outgoing
// capacity and halving down to 1. The final phase at delta 1 is exactly
// the plain algorithm, so the result equals MaxFlow's.
func (s *Solver) ScalingMaxFlow(ctx context.Context) (float64, error) {
	maxOut := 0.0
	for _, e := range s.source.Edges {
		if e.From == s.source && e.Capacity > maxOut {
			maxOut = e.Capacity
		}
	}

	delta := 2
	for float64(delta) < maxOut {
		delta *= 2
	}
	delta /= 2

	for delta >= 1 {
		if err := s.runPhase(ctx, float64(delta)); err != nil {
			return s.total, err
		}
		delta /= 2
	}

	return s.total, nil
}

// runPhase repeats find/augment at one threshold until no eligible path
// remains, the iteration budget is spent, or the context is done.
func (s *Solver) runPhase(ctx context.Context, delta float64) error {
	for {
		if s.iterations%checkInterval == 0 {
			select {
			case <-ctx.Done():
				return contextError(ctx.Err())
			default:
			}
		}

		if s.opts.MaxIterations > 0 && s.iterations >= s.opts.MaxIterations {
			return nil
		}

		path := s.findPath(delta)
		if path == nil {
			return nil
		}

		if _, err := s.augment(path); err != nil {
			return err
		}
		s.iterations++
	}
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.Wrap(err, apperror.CodeTimeout, "solve exceeded its deadline")
	}
	return apperror.Wrap(err, apperror.CodeCanceled, "solve was canceled")
}

// eligible reports whether an edge can carry flow at the threshold.
// At delta 1 (and below) any strictly positive remaining capacity
// qualifies, so the last scaling phase matches the plain algorithm;
// above 1 the capacity must reach the threshold within Epsilon.
func eligible(e *graph.Edge, delta float64) bool {
	if delta <= 1 {
		return e.Capacity > domain.Epsilon
	}
	return e.Capacity >= delta-domain.Epsilon
}
