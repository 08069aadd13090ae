package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"classlib-backend/internal/domains/circulation/model"
)

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new PostgreSQL history ledger
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

// Append implements HistoryRepository.Append
func (r *historyRepository) Append(ctx context.Context, tx pgx.Tx, entry model.HistoryEntry) (*model.HistoryEntry, error) {
	query := `
		INSERT INTO loan_history (
			borrower_id, item_id, checked_out_at, checked_in_at, duration_ms
		) VALUES (
			@borrower_id, @item_id, @checked_out_at, @checked_in_at, @duration_ms
		)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, pgx.NamedArgs{
		"borrower_id":    entry.BorrowerID,
		"item_id":        entry.ItemID,
		"checked_out_at": entry.CheckedOutAt,
		"checked_in_at":  entry.CheckedInAt,
		"duration_ms":    entry.DurationMs,
	}).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append loan history: %w", err)
	}

	return &entry, nil
}

// ListByItem implements HistoryRepository.ListByItem
func (r *historyRepository) ListByItem(ctx context.Context, itemID int64) ([]model.HistoryEntry, error) {
	query := `
		SELECT id, borrower_id, item_id, checked_out_at, checked_in_at, duration_ms, created_at
		FROM loan_history
		WHERE item_id = @item_id
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{"item_id": itemID})
	if err != nil {
		return nil, fmt.Errorf("failed to list loan history: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.HistoryEntry, error) {
		var e model.HistoryEntry
		err := row.Scan(&e.ID, &e.BorrowerID, &e.ItemID, &e.CheckedOutAt, &e.CheckedInAt, &e.DurationMs, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan history: %w", err)
	}

	return entries, nil
}
