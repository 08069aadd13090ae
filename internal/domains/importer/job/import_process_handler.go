package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"classlib-backend/internal/domains/importer/model"
	"classlib-backend/internal/domains/importer/service"
	"classlib-backend/internal/shared"
)

// ImportProcessHandler reconciles a queued import run.
type ImportProcessHandler struct {
	imports service.ServiceInterface
}

func NewImportProcessHandler(imports service.ServiceInterface) *ImportProcessHandler {
	return &ImportProcessHandler{imports: imports}
}

// ProcessTask retries storage failures. A broken payload, a missing run or a
// file that does not parse will never succeed, so those skip the retries.
func (h *ImportProcessHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ImportProcessPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	id, err := uuid.Parse(payload.RunID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", payload.RunID, asynq.SkipRetry)
	}

	run, err := h.imports.ProcessRun(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) || errors.Is(err, shared.ErrNotFound) ||
			errors.Is(err, model.ErrAsyncUnavailable) {
			log.Warn().Err(err).Str("run_id", payload.RunID).Msg("Import run cannot be processed")
			return fmt.Errorf("import run %s: %v: %w", payload.RunID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("import run %s: %w", payload.RunID, err)
	}

	log.Info().
		Str("run_id", payload.RunID).
		Str("status", run.Status).
		Msg("Import task processed")
	return nil
}
