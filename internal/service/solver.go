// Package service orchestrates solve requests: validation, caching,
// solving, metrics, and history recording.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"flownet/internal/convert"
	"flownet/internal/history"
	"flownet/internal/solver"
	"flownet/pkg/apperror"
	"flownet/pkg/cache"
	"flownet/pkg/config"
	"flownet/pkg/logger"
	"flownet/pkg/metrics"
	"flownet/pkg/model"
	"flownet/pkg/telemetry"
)

// SolverService handles solve requests end to end.
type SolverService struct {
	cfg         *config.Config
	metrics     *metrics.Metrics
	solverCache *cache.SolverCache
	repo        history.Repository
}

// NewSolverService creates the service. Cache and repository are
// optional; nil disables the corresponding concern.
func NewSolverService(cfg *config.Config, solverCache *cache.SolverCache, repo history.Repository) *SolverService {
	return &SolverService{
		cfg:         cfg,
		metrics:     metrics.Get(),
		solverCache: solverCache,
		repo:        repo,
	}
}

// Solve validates the request, consults the cache, runs the solver, and
// records the outcome. The returned response always carries a request id.
func (s *SolverService) Solve(ctx context.Context, req *model.SolveRequest) (*model.SolveResponse, error) {
	if req == nil {
		return nil, apperror.New(apperror.CodeNilInput, "request is nil")
	}

	algorithm, traversal, err := s.resolveStrategy(req)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "SolverService.Solve",
		telemetry.WithAttributes(telemetry.GraphAttributes(
			len(req.Graph.Vertices), len(req.Graph.Edges),
			req.Graph.Source, req.Graph.Sink,
		)...),
	)
	defer span.End()

	if err := s.checkLimits(&req.Graph); err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	requestID := uuid.NewString()

	if s.solverCache != nil {
		cached, found, cerr := s.solverCache.Get(ctx, &req.Graph, algorithm, traversal)
		if cerr != nil {
			logger.Log.Warn("Cache lookup failed", "error", cerr)
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation("get", cacheResult(found))
		}
		if cerr == nil && found {
			telemetry.AddEvent(ctx, "cache_hit",
				attribute.Float64("max_flow", cached.MaxFlow),
			)
			return &model.SolveResponse{
				RequestID: requestID,
				Algorithm: algorithm,
				Traversal: traversal,
				Cached:    true,
				Result:    cached.ToResult(),
				CreatedAt: time.Now(),
			}, nil
		}
	}

	network, err := convert.ToNetwork(&req.Graph)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	opts := solver.DefaultOptions().
		WithSourceName(s.sourceName(&req.Graph)).
		WithSinkName(s.sinkName(&req.Graph)).
		WithTraversal(solver.Traversal(traversal))

	sol, err := solver.New(network, opts)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	solveCtx := ctx
	if s.cfg.Solver.SolveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, s.cfg.Solver.SolveTimeout)
		defer cancel()
	}

	start := time.Now()

	var maxFlow float64
	switch algorithm {
	case model.AlgorithmScaling:
		maxFlow, err = sol.ScalingMaxFlow(solveCtx)
	default:
		maxFlow, err = sol.MaxFlow(solveCtx)
	}
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordSolveOperation(algorithm, err == nil, elapsed, maxFlow)
		s.metrics.RecordAugmentingPaths(algorithm, sol.Iterations())
		s.metrics.RecordGraphSize("solve", len(req.Graph.Vertices), len(req.Graph.Edges))
	}

	telemetry.SetAttributes(ctx, telemetry.AlgorithmAttributes(
		algorithm, traversal, sol.Iterations(), maxFlow,
	)...)

	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	result := &model.SolveResult{
		MaxFlow:           maxFlow,
		Iterations:        sol.Iterations(),
		ComputationTimeMs: float64(elapsed.Microseconds()) / 1000.0,
		Edges:             convert.ToFlowEdges(network),
	}

	if s.solverCache != nil {
		if cerr := s.solverCache.SetFromResult(ctx, &req.Graph, algorithm, traversal, result, 0); cerr != nil {
			logger.Log.Warn("Failed to cache solve result", "error", cerr)
		}
	}

	s.recordRun(ctx, &req.Graph, algorithm, traversal, result)

	return &model.SolveResponse{
		RequestID: requestID,
		Algorithm: algorithm,
		Traversal: traversal,
		Result:    result,
		CreatedAt: time.Now(),
	}, nil
}

// ListRuns returns recorded solve runs. Fails when history is disabled.
func (s *SolverService) ListRuns(ctx context.Context, opts *history.ListOptions) ([]*history.SolveRun, int64, error) {
	if s.repo == nil {
		return nil, 0, apperror.New(apperror.CodeNotFound, "history is not enabled")
	}
	return s.repo.List(ctx, opts)
}

// GetRun returns one recorded solve run by id.
func (s *SolverService) GetRun(ctx context.Context, id string) (*history.SolveRun, error) {
	if s.repo == nil {
		return nil, apperror.New(apperror.CodeNotFound, "history is not enabled")
	}
	run, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == history.ErrRunNotFound {
			return nil, apperror.New(apperror.CodeNotFound, "solve run not found")
		}
		return nil, err
	}
	return run, nil
}

// resolveStrategy fills in defaults and rejects unknown names.
func (s *SolverService) resolveStrategy(req *model.SolveRequest) (string, string, error) {
	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = s.cfg.Solver.DefaultAlgorithm
	}
	switch algorithm {
	case model.AlgorithmFordFulkerson, model.AlgorithmScaling:
	default:
		return "", "", apperror.NewWithField(apperror.CodeInvalidAlgorithm,
			"unknown algorithm", algorithm)
	}

	traversal := req.Traversal
	if traversal == "" {
		traversal = s.cfg.Solver.DefaultTraversal
	}
	switch traversal {
	case model.TraversalDFS, model.TraversalBFS:
	default:
		return "", "", apperror.NewWithField(apperror.CodeInvalidTraversal,
			"unknown traversal", traversal)
	}

	return algorithm, traversal, nil
}

func (s *SolverService) checkLimits(graph *model.GraphSpec) error {
	if max := s.cfg.Solver.MaxVertices; max > 0 && len(graph.Vertices) > max {
		return apperror.New(apperror.CodeInvalidArgument, "graph exceeds the vertex limit").
			WithDetails("vertices", len(graph.Vertices)).
			WithDetails("limit", max)
	}
	if max := s.cfg.Solver.MaxEdges; max > 0 && len(graph.Edges) > max {
		return apperror.New(apperror.CodeInvalidArgument, "graph exceeds the edge limit").
			WithDetails("edges", len(graph.Edges)).
			WithDetails("limit", max)
	}
	return nil
}

func (s *SolverService) sourceName(graph *model.GraphSpec) string {
	if graph.Source != "" {
		return graph.Source
	}
	return s.cfg.Solver.SourceName
}

func (s *SolverService) sinkName(graph *model.GraphSpec) string {
	if graph.Sink != "" {
		return graph.Sink
	}
	return s.cfg.Solver.SinkName
}

// recordRun writes the run to history, best effort.
func (s *SolverService) recordRun(ctx context.Context, graph *model.GraphSpec, algorithm, traversal string, result *model.SolveResult) {
	if s.repo == nil {
		return
	}

	run := &history.SolveRun{
		GraphHash:         cache.GraphHash(graph),
		Algorithm:         algorithm,
		Traversal:         traversal,
		MaxFlow:           result.MaxFlow,
		Iterations:        result.Iterations,
		ComputationTimeMs: result.ComputationTimeMs,
		VertexCount:       len(graph.Vertices),
		EdgeCount:         len(graph.Edges),
	}

	if err := s.repo.Create(ctx, run); err != nil {
		logger.Log.Warn("Failed to record solve run", "error", err)
	}
}

func cacheResult(found bool) string {
	if found {
		return "hit"
	}
	return "miss"
}
