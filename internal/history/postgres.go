package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"flownet/pkg/database"
	"flownet/pkg/telemetry"
)

// PostgresRepository is the PostgreSQL implementation of Repository.
type PostgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, run *SolveRun) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRepository.Create")
	defer span.End()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	query := `
		INSERT INTO solve_runs (
			id, graph_hash, algorithm, traversal, max_flow,
			iterations, computation_time_ms, vertex_count, edge_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		run.ID,
		run.GraphHash,
		run.Algorithm,
		run.Traversal,
		run.MaxFlow,
		run.Iterations,
		run.ComputationTimeMs,
		run.VertexCount,
		run.EdgeCount,
	).Scan(&run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create solve run: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*SolveRun, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRepository.GetByID")
	defer span.End()

	query := `
		SELECT
			id, graph_hash, algorithm, traversal, max_flow,
			iterations, computation_time_ms, vertex_count, edge_count, created_at
		FROM solve_runs
		WHERE id = $1
	`

	run := &SolveRun{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.GraphHash,
		&run.Algorithm,
		&run.Traversal,
		&run.MaxFlow,
		&run.Iterations,
		&run.ComputationTimeMs,
		&run.VertexCount,
		&run.EdgeCount,
		&run.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get solve run: %w", err)
	}

	return run, nil
}

func (r *PostgresRepository) List(ctx context.Context, opts *ListOptions) ([]*SolveRun, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRepository.List")
	defer span.End()

	if opts == nil {
		opts = &ListOptions{Limit: 20}
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	where, args := buildWhereClause(opts)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM solve_runs WHERE %s`, where)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count solve runs: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			id, graph_hash, algorithm, traversal, max_flow,
			iterations, computation_time_ms, vertex_count, edge_count, created_at
		FROM solve_runs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list solve runs: %w", err)
	}
	defer rows.Close()

	var results []*SolveRun
	for rows.Next() {
		run := &SolveRun{}
		err := rows.Scan(
			&run.ID,
			&run.GraphHash,
			&run.Algorithm,
			&run.Traversal,
			&run.MaxFlow,
			&run.Iterations,
			&run.ComputationTimeMs,
			&run.VertexCount,
			&run.EdgeCount,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan solve run: %w", err)
		}
		results = append(results, run)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return results, total, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRepository.Delete")
	defer span.End()

	result, err := r.db.Exec(ctx, `DELETE FROM solve_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete solve run: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRunNotFound
	}

	return nil
}

func buildWhereClause(opts *ListOptions) (string, []any) {
	conditions := []string{"TRUE"}
	var args []any
	argNum := 1

	if opts.Algorithm != "" {
		conditions = append(conditions, fmt.Sprintf("algorithm = $%d", argNum))
		args = append(args, opts.Algorithm)
		argNum++
	}

	if opts.GraphHash != "" {
		conditions = append(conditions, fmt.Sprintf("graph_hash = $%d", argNum))
		args = append(args, opts.GraphHash)
	}

	return strings.Join(conditions, " AND "), args
}
