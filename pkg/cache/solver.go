package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flownet/pkg/model"
)

// SolverCache is a specialized cache for solve results.
type SolverCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedSolveResult is the cached form of a solve outcome.
type CachedSolveResult struct {
	MaxFlow           float64          `json:"max_flow"`
	Iterations        int              `json:"iterations"`
	ComputationTimeMs float64          `json:"computation_time_ms"`
	Edges             []model.FlowEdge `json:"edges,omitempty"`
	ComputedAt        time.Time        `json:"computed_at"`
}

// NewSolverCache creates a cache for solve results.
func NewSolverCache(cache Cache, defaultTTL time.Duration) *SolverCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &SolverCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached result for a graph/algorithm/traversal combination.
// The second return value reports whether the entry was found.
func (sc *SolverCache) Get(ctx context.Context, graph *model.GraphSpec, algorithm, traversal string) (*CachedSolveResult, bool, error) {
	graphHash := GraphHash(graph)
	key := BuildSolveKey(graphHash, algorithm, traversal)

	data, err := sc.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedSolveResult
	if err := json.Unmarshal(data, &result); err != nil {
		// corrupted entry, drop it
		_ = sc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &result, true, nil
}

// Set stores a solve result.
func (sc *SolverCache) Set(ctx context.Context, graph *model.GraphSpec, algorithm, traversal string, result *CachedSolveResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = sc.defaultTTL
	}

	graphHash := GraphHash(graph)
	key := BuildSolveKey(graphHash, algorithm, traversal)

	result.ComputedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return sc.cache.Set(ctx, key, data, ttl)
}

// SetFromResult stores a solve result from the API result type.
func (sc *SolverCache) SetFromResult(ctx context.Context, graph *model.GraphSpec, algorithm, traversal string, res *model.SolveResult, ttl time.Duration) error {
	if res == nil {
		return nil
	}

	result := &CachedSolveResult{
		MaxFlow:           res.MaxFlow,
		Iterations:        res.Iterations,
		ComputationTimeMs: res.ComputationTimeMs,
		Edges:             res.Edges,
	}

	return sc.Set(ctx, graph, algorithm, traversal, result, ttl)
}

// Invalidate removes all cached results for a graph.
func (sc *SolverCache) Invalidate(ctx context.Context, graph *model.GraphSpec) error {
	graphHash := GraphHash(graph)
	pattern := fmt.Sprintf("solve:*%s", graphHash)
	_, err := sc.cache.DeleteByPattern(ctx, pattern)
	return err
}

// InvalidateAll removes all cached solve results.
func (sc *SolverCache) InvalidateAll(ctx context.Context) (int64, error) {
	return sc.cache.DeleteByPattern(ctx, "solve:*")
}

// ToResult converts a cached entry back to the API result type.
func (r *CachedSolveResult) ToResult() *model.SolveResult {
	return &model.SolveResult{
		MaxFlow:           r.MaxFlow,
		Iterations:        r.Iterations,
		ComputationTimeMs: r.ComputationTimeMs,
		Edges:             r.Edges,
	}
}
