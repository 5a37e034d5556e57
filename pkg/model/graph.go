// Package model defines the wire-level types shared by the HTTP API,
// the result cache, and the history store.
package model

import "time"

// Algorithm names accepted by the solve API.
const (
	AlgorithmFordFulkerson = "ford_fulkerson"
	AlgorithmScaling       = "scaling"
)

// Traversal strategy names accepted by the solve API.
const (
	TraversalDFS = "dfs"
	TraversalBFS = "bfs"
)

// EdgeSpec describes one directed capacitated edge of the input graph.
type EdgeSpec struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Capacity float64 `json:"capacity"`
	Label    string  `json:"label,omitempty"`
}

// GraphSpec describes the input graph. Source and Sink are vertex names;
// empty values fall back to the configured defaults ("s" and "t").
type GraphSpec struct {
	Vertices []string   `json:"vertices"`
	Edges    []EdgeSpec `json:"edges"`
	Source   string     `json:"source,omitempty"`
	Sink     string     `json:"sink,omitempty"`
}

// SolveRequest is the body of POST /api/v1/solve.
type SolveRequest struct {
	Graph     GraphSpec `json:"graph"`
	Algorithm string    `json:"algorithm,omitempty"`
	Traversal string    `json:"traversal,omitempty"`
}

// FlowEdge is one edge of the computed flow assignment.
type FlowEdge struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Flow        float64 `json:"flow"`
	Capacity    float64 `json:"capacity"`
	Utilization float64 `json:"utilization"`
}

// SolveResult is the computed outcome of a solve run.
type SolveResult struct {
	MaxFlow           float64    `json:"max_flow"`
	Iterations        int        `json:"iterations"`
	ComputationTimeMs float64    `json:"computation_time_ms"`
	Edges             []FlowEdge `json:"edges,omitempty"`
}

// SolveResponse is the body returned by POST /api/v1/solve.
type SolveResponse struct {
	RequestID string       `json:"request_id"`
	Algorithm string       `json:"algorithm"`
	Traversal string       `json:"traversal"`
	Cached    bool         `json:"cached"`
	Result    *SolveResult `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}

// ErrorResponse is the body returned on request failure.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
