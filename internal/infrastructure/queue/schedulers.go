package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"classlib-backend/internal/config"
	"classlib-backend/internal/shared"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisCfg config.RedisConfig, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		RedisOpt(redisCfg),
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerRosterRefreshJob()
}

// ================================================
// JOB: Roster Refresh (JOB_ROSTER_REFRESH_CRON)
// ================================================
// Rebuilds the cached roster even when no write invalidated it, so a lost
// invalidation never leaves a stale view for longer than one period.
func (s *Scheduler) registerRosterRefreshJob() error {
	payload, err := json.Marshal(shared.RosterRefreshPayload{Reason: "scheduled"})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeRosterRefresh, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.RosterRefreshCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register RosterRefresh job")
		return err
	}

	log.Info().Str("cron", s.jobConfig.RosterRefreshCron).Msg("✓ Registered RosterRefresh")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
