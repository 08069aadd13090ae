package repository

import (
	"context"

	"github.com/google/uuid"

	"classlib-backend/internal/domains/importer/model"
)

// RunRepository tracks import runs.
type RunRepository interface {
	Create(ctx context.Context, run *model.ImportRun) error
	// MarkProcessing moves a pending run to processing. It returns false when
	// the run was not pending.
	MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID, totalRows int, result *model.ImportResult) error
	Fail(ctx context.Context, id uuid.UUID, failure string) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ImportRun, error)
	List(ctx context.Context, limit int) ([]model.ImportRun, error)
}
