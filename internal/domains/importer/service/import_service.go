package service

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"classlib-backend/internal/domains/importer/model"
	"classlib-backend/internal/domains/importer/parser"
	"classlib-backend/internal/domains/importer/repository"
	"classlib-backend/internal/shared"
	"classlib-backend/pkg/database"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type ImportService struct {
	reconciler Reconciler
	runs       repository.RunRepository
	storage    ObjectStore       // optional
	enqueuer   RunEnqueuer       // optional
	roster     RosterInvalidator // optional
	maxRows    int
}

func NewImportService(
	reconciler Reconciler,
	runs repository.RunRepository,
	storage ObjectStore,
	enqueuer RunEnqueuer,
	roster RosterInvalidator,
	maxRows int,
) ServiceInterface {
	return &ImportService{
		reconciler: reconciler,
		runs:       runs,
		storage:    storage,
		enqueuer:   enqueuer,
		roster:     roster,
		maxRows:    maxRows,
	}
}

// parsedFile is a file mapped to the rows of its kind.
type parsedFile struct {
	borrowers []model.BorrowerRow
	items     []model.ItemRow
}

func (p *parsedFile) total() int {
	return len(p.borrowers) + len(p.items)
}

func (s *ImportService) parse(kind model.Kind, fileName string, data []byte) (*parsedFile, error) {
	req := model.ImportRequest{Kind: kind}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrValidation, err)
	}

	table, err := parser.ReadTable(fileName, data, s.maxRows)
	if err != nil {
		return nil, err
	}

	var out parsedFile
	switch kind {
	case model.KindBorrowers:
		out.borrowers, err = parser.BorrowerRows(table)
	default:
		out.items, err = parser.ItemRows(table)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ImportService) reconcile(ctx context.Context, kind model.Kind, file *parsedFile) (*model.ImportResult, error) {
	if kind == model.KindBorrowers {
		return s.reconciler.ImportBorrowers(ctx, file.borrowers)
	}
	return s.reconciler.ImportItems(ctx, file.items)
}

// ImportFile implements ServiceInterface.ImportFile
func (s *ImportService) ImportFile(ctx context.Context, kind model.Kind, fileName string, data []byte) (*model.ImportRun, error) {
	file, err := s.parse(kind, fileName, data)
	if err != nil {
		return nil, err
	}

	run := &model.ImportRun{
		ID:        uuid.New(),
		Kind:      kind,
		FileName:  fileName,
		Status:    model.RunStatusProcessing,
		TotalRows: file.total(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	return s.finish(ctx, run, file)
}

// SubmitFile implements ServiceInterface.SubmitFile
//
// The file is parsed once up front so a malformed upload is rejected in the
// request instead of failing later in the worker.
func (s *ImportService) SubmitFile(ctx context.Context, kind model.Kind, fileName string, data []byte) (*model.ImportRun, error) {
	if s.storage == nil || s.enqueuer == nil {
		return nil, model.ErrAsyncUnavailable
	}

	file, err := s.parse(kind, fileName, data)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := objectKey(id, fileName)
	if err := s.storage.Upload(ctx, key, data, contentType(fileName, data)); err != nil {
		return nil, database.Unavailable(fmt.Errorf("failed to archive import file: %w", err))
	}

	run := &model.ImportRun{
		ID:        id,
		Kind:      kind,
		FileName:  fileName,
		ObjectKey: &key,
		Status:    model.RunStatusPending,
		TotalRows: file.total(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		// no run points at the object, nothing would ever read it
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to remove orphaned import file")
		}
		return nil, err
	}

	if err := s.enqueuer.EnqueueImport(ctx, id.String()); err != nil {
		s.markFailed(ctx, run, "failed to queue import")
		return nil, database.Unavailable(fmt.Errorf("failed to queue import: %w", err))
	}

	log.Info().
		Str("run_id", id.String()).
		Str("kind", string(kind)).
		Int("rows", run.TotalRows).
		Msg("Import queued")

	return run, nil
}

// ProcessRun implements ServiceInterface.ProcessRun
func (s *ImportService) ProcessRun(ctx context.Context, id uuid.UUID) (*model.ImportRun, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.IsFinished() {
		log.Info().Str("run_id", id.String()).Str("status", run.Status).Msg("Import run already finished")
		return run, nil
	}

	// a processing run is one whose previous attempt died; run it again
	if run.Status == model.RunStatusPending {
		if _, err := s.runs.MarkProcessing(ctx, id); err != nil {
			return nil, err
		}
		run.Status = model.RunStatusProcessing
	}

	if run.ObjectKey == nil || s.storage == nil {
		s.markFailed(ctx, run, "import file is not available")
		return run, model.ErrAsyncUnavailable
	}

	data, err := s.storage.Download(ctx, *run.ObjectKey)
	if err != nil {
		return nil, database.Unavailable(fmt.Errorf("failed to download import file: %w", err))
	}

	file, err := s.parse(run.Kind, run.FileName, data)
	if err != nil {
		s.markFailed(ctx, run, err.Error())
		return run, err
	}

	return s.finish(ctx, run, file)
}

// finish reconciles a processing run and records the outcome.
func (s *ImportService) finish(ctx context.Context, run *model.ImportRun, file *parsedFile) (*model.ImportRun, error) {
	result, err := s.reconcile(ctx, run.Kind, file)
	if err != nil {
		s.markFailed(ctx, run, err.Error())
		return nil, err
	}

	if err := s.runs.Complete(ctx, run.ID, file.total(), result); err != nil {
		return nil, err
	}

	run.Status = model.RunStatusCompleted
	run.TotalRows = file.total()
	run.InsertedCount = result.InsertedCount
	run.UpdatedCount = result.UpdatedCount
	run.Errors = result.Errors

	log.Info().
		Str("run_id", run.ID.String()).
		Str("kind", string(run.Kind)).
		Int("inserted", result.InsertedCount).
		Int("updated", result.UpdatedCount).
		Int("errors", len(result.Errors)).
		Msg("Import completed")

	if s.roster != nil && result.InsertedCount+result.UpdatedCount > 0 {
		s.roster.Invalidate(context.WithoutCancel(ctx), "import")
	}
	return run, nil
}

func (s *ImportService) markFailed(ctx context.Context, run *model.ImportRun, failure string) {
	run.Status = model.RunStatusFailed
	run.Failure = &failure
	if err := s.runs.Fail(context.WithoutCancel(ctx), run.ID, failure); err != nil {
		log.Error().Err(err).Str("run_id", run.ID.String()).Msg("Failed to mark import run failed")
	}
}

// GetRun implements ServiceInterface.GetRun
func (s *ImportService) GetRun(ctx context.Context, id uuid.UUID) (*model.ImportRun, error) {
	return s.runs.GetByID(ctx, id)
}

// ListRuns implements ServiceInterface.ListRuns
func (s *ImportService) ListRuns(ctx context.Context, limit int) ([]model.ImportRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.runs.List(ctx, limit)
}

func objectKey(id uuid.UUID, fileName string) string {
	return fmt.Sprintf("imports/%s/%s", id, path.Base(fileName))
}

func contentType(fileName string, data []byte) string {
	if format, _ := parser.DetectFormat(fileName, data); format == parser.FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}
