package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"classlib-backend/internal/domains/borrower/model"
)

// Resolver maps a borrower name to a stable borrower id.
type Resolver interface {
	// ResolveOrCreate runs inside the caller's transaction. It creates the
	// borrower if absent and merges a non-nil classification into it.
	ResolveOrCreate(ctx context.Context, tx pgx.Tx, name string, classification *string) (model.Resolution, error)
}

// RosterService serves the roster read model.
type RosterService interface {
	// Get returns the cached roster, building it on a miss.
	Get(ctx context.Context) ([]model.RosterEntry, error)

	// Refresh rebuilds the roster from the database and caches it.
	Refresh(ctx context.Context) ([]model.RosterEntry, error)

	// Invalidate drops the cached roster and schedules a rebuild.
	// Best effort: failures are logged, never returned.
	Invalidate(ctx context.Context, reason string)
}

// RefreshEnqueuer schedules a background roster rebuild.
type RefreshEnqueuer interface {
	EnqueueRosterRefresh(ctx context.Context, reason string) error
}
