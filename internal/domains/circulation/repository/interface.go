package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"classlib-backend/internal/domains/circulation/model"
)

// HistoryRepository is the append-only loan history ledger.
type HistoryRepository interface {
	// Append records a completed loan and returns it with id and created_at set
	Append(ctx context.Context, tx pgx.Tx, entry model.HistoryEntry) (*model.HistoryEntry, error)

	// ListByItem returns the loans of an item in the order they happened
	ListByItem(ctx context.Context, itemID int64) ([]model.HistoryEntry, error)
}
