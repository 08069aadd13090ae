package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"classlib-backend/internal/domains/borrower/service"
)

// RosterRefreshHandler rebuilds the cached roster projection.
type RosterRefreshHandler struct {
	roster service.RosterService
}

func NewRosterRefreshHandler(roster service.RosterService) *RosterRefreshHandler {
	return &RosterRefreshHandler{roster: roster}
}

// ProcessTask ignores the payload; every refresh rebuilds the whole roster.
func (h *RosterRefreshHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	roster, err := h.roster.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("roster refresh: %w", err)
	}

	log.Debug().Int("borrowers", len(roster)).Msg("Roster refreshed")
	return nil
}
