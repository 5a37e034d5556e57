// Package history persists completed solve runs for later inspection.
package history

import (
	"context"
	"errors"
	"time"
)

var ErrRunNotFound = errors.New("solve run not found")

// SolveRun is one recorded max-flow computation.
type SolveRun struct {
	ID                string
	GraphHash         string
	Algorithm         string
	Traversal         string
	MaxFlow           float64
	Iterations        int
	ComputationTimeMs float64
	VertexCount       int
	EdgeCount         int
	CreatedAt         time.Time
}

// ListOptions controls paging and filtering of List.
type ListOptions struct {
	Limit     int
	Offset    int
	Algorithm string
	GraphHash string
}

// Repository stores solve runs.
type Repository interface {
	Create(ctx context.Context, run *SolveRun) error
	GetByID(ctx context.Context, id string) (*SolveRun, error)
	List(ctx context.Context, opts *ListOptions) ([]*SolveRun, int64, error)
	Delete(ctx context.Context, id string) error
}
