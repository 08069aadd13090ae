package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"classlib-backend/internal/config"
	"classlib-backend/internal/shared"
)

// Enqueuer publishes the background tasks of the lending backend.
type Enqueuer struct {
	client      *asynq.Client
	rosterDedup time.Duration
	importTTL   time.Duration
}

func NewEnqueuer(redisCfg config.RedisConfig, jobCfg config.JobConfig) *Enqueuer {
	return &Enqueuer{
		client:      asynq.NewClient(RedisOpt(redisCfg)),
		rosterDedup: jobCfg.RosterRefreshDedup,
		importTTL:   jobCfg.ImportTimeout,
	}
}

// RedisOpt converts the redis config to asynq's connection option.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// EnqueueRosterRefresh schedules a rebuild of the roster projection.
// Bursts of checkouts collapse into one task per dedup window.
func (e *Enqueuer) EnqueueRosterRefresh(ctx context.Context, reason string) error {
	payload, err := json.Marshal(shared.RosterRefreshPayload{Reason: reason})
	if err != nil {
		return fmt.Errorf("marshal roster refresh payload: %w", err)
	}

	opts := []asynq.Option{
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(time.Minute),
	}
	if e.rosterDedup > 0 {
		opts = append(opts, asynq.Unique(e.rosterDedup))
	}

	_, err = e.client.EnqueueContext(ctx, asynq.NewTask(shared.TypeRosterRefresh, payload), opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeRosterRefresh, err)
	}
	return nil
}

// EnqueueImport hands a pending import run to the worker.
func (e *Enqueuer) EnqueueImport(ctx context.Context, runID string) error {
	payload, err := json.Marshal(shared.ImportProcessPayload{RunID: runID})
	if err != nil {
		return fmt.Errorf("marshal import payload: %w", err)
	}

	info, err := e.client.EnqueueContext(ctx,
		asynq.NewTask(shared.TypeImportProcess, payload),
		asynq.Queue(shared.QueueCritical),
		asynq.TaskID("import:"+runID),
		asynq.MaxRetry(3),
		asynq.Timeout(e.importTTL),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeImportProcess, err)
	}

	log.Info().Str("run_id", runID).Str("task_id", info.ID).Msg("Import task enqueued")
	return nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}
