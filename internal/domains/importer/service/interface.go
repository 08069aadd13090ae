package service

import (
	"context"

	"github.com/google/uuid"

	"classlib-backend/internal/domains/importer/model"
)

// Reconciler upserts parsed rows. Each call is one transaction; bad rows are
// reported and skipped, only storage failures fail the call.
type Reconciler interface {
	ImportBorrowers(ctx context.Context, rows []model.BorrowerRow) (*model.ImportResult, error)
	ImportItems(ctx context.Context, rows []model.ItemRow) (*model.ImportResult, error)
}

// ServiceInterface runs file imports and tracks them as import runs.
type ServiceInterface interface {
	// ImportFile parses and reconciles a file in the caller's request.
	ImportFile(ctx context.Context, kind model.Kind, fileName string, data []byte) (*model.ImportRun, error)

	// SubmitFile archives a file and queues it for the worker.
	SubmitFile(ctx context.Context, kind model.Kind, fileName string, data []byte) (*model.ImportRun, error)

	// ProcessRun reconciles a queued run. Finished runs are left alone.
	ProcessRun(ctx context.Context, id uuid.UUID) (*model.ImportRun, error)

	GetRun(ctx context.Context, id uuid.UUID) (*model.ImportRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.ImportRun, error)
}

// ObjectStore keeps the uploaded files of async imports.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// RunEnqueuer queues a run for the worker.
type RunEnqueuer interface {
	EnqueueImport(ctx context.Context, runID string) error
}

// RosterInvalidator is notified after every committed import.
type RosterInvalidator interface {
	Invalidate(ctx context.Context, reason string)
}
