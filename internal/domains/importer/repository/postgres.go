package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"classlib-backend/internal/domains/importer/model"
)

const runColumns = `
	id, kind, file_name, object_key, status, total_rows, inserted_count,
	updated_count, errors, failure, created_at, started_at, completed_at
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository tạo repository instance
func NewRunRepository(pool *pgxpool.Pool) RunRepository {
	return &postgresRepository{pool: pool}
}

func scanRun(row pgx.Row) (*model.ImportRun, error) {
	var run model.ImportRun
	err := row.Scan(
		&run.ID,
		&run.Kind,
		&run.FileName,
		&run.ObjectKey,
		&run.Status,
		&run.TotalRows,
		&run.InsertedCount,
		&run.UpdatedCount,
		&run.Errors,
		&run.Failure,
		&run.CreatedAt,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if run.Errors == nil {
		run.Errors = []model.RowError{}
	}
	return &run, nil
}

// Create implements RunRepository.Create
func (r *postgresRepository) Create(ctx context.Context, run *model.ImportRun) error {
	query := `
		INSERT INTO import_runs (id, kind, file_name, object_key, status, total_rows, started_at)
		VALUES (@id, @kind, @file_name, @object_key, @status, @total_rows,
			CASE WHEN @status = 'processing' THEN NOW() END)
		RETURNING created_at, started_at
	`

	err := r.pool.QueryRow(ctx, query, pgx.NamedArgs{
		"id":         run.ID,
		"kind":       string(run.Kind),
		"file_name":  run.FileName,
		"object_key": run.ObjectKey,
		"status":     run.Status,
		"total_rows": run.TotalRows,
	}).Scan(&run.CreatedAt, &run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create import run: %w", err)
	}

	if run.Errors == nil {
		run.Errors = []model.RowError{}
	}
	return nil
}

// MarkProcessing implements RunRepository.MarkProcessing
func (r *postgresRepository) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE import_runs
		SET status = 'processing', started_at = NOW()
		WHERE id = @id AND status = 'pending'
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to start import run: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Complete implements RunRepository.Complete
func (r *postgresRepository) Complete(ctx context.Context, id uuid.UUID, totalRows int, result *model.ImportResult) error {
	rowErrors := result.Errors
	if rowErrors == nil {
		rowErrors = []model.RowError{}
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE import_runs
		SET status = 'completed',
			total_rows = @total_rows,
			inserted_count = @inserted,
			updated_count = @updated,
			errors = @errors,
			completed_at = NOW()
		WHERE id = @id
	`, pgx.NamedArgs{
		"id":         id,
		"total_rows": totalRows,
		"inserted":   result.InsertedCount,
		"updated":    result.UpdatedCount,
		"errors":     rowErrors,
	})
	if err != nil {
		return fmt.Errorf("failed to complete import run: %w", err)
	}
	return nil
}

// Fail implements RunRepository.Fail
func (r *postgresRepository) Fail(ctx context.Context, id uuid.UUID, failure string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE import_runs
		SET status = 'failed', failure = @failure, completed_at = NOW()
		WHERE id = @id
	`, pgx.NamedArgs{"id": id, "failure": failure})
	if err != nil {
		return fmt.Errorf("failed to mark import run failed: %w", err)
	}
	return nil
}

// GetByID implements RunRepository.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ImportRun, error) {
	query := `SELECT ` + runColumns + ` FROM import_runs WHERE id = @id`

	run, err := scanRun(r.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}
	return run, nil
}

// List implements RunRepository.List, newest first.
func (r *postgresRepository) List(ctx context.Context, limit int) ([]model.ImportRun, error) {
	query := `SELECT ` + runColumns + ` FROM import_runs ORDER BY created_at DESC, id LIMIT @limit`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ImportRun, error) {
		run, err := scanRun(row)
		if err != nil {
			return model.ImportRun{}, err
		}
		return *run, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan import runs: %w", err)
	}
	return runs, nil
}
