package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"classlib-backend/internal/domains/borrower/model"
)

// postgresRepository implements RepositoryInterface
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool: pool,
	}
}

// Upsert implements RepositoryInterface.Upsert
func (r *postgresRepository) Upsert(ctx context.Context, tx pgx.Tx, name string, classification *string) (model.Resolution, error) {
	// xmax = 0 only on a freshly inserted tuple
	query := `
		INSERT INTO borrowers (name, classification)
		VALUES (@name, @classification)
		ON CONFLICT (name) DO UPDATE SET
			classification = COALESCE(EXCLUDED.classification, borrowers.classification),
			updated_at = CASE
				WHEN EXCLUDED.classification IS NOT NULL
				 AND EXCLUDED.classification IS DISTINCT FROM borrowers.classification
				THEN NOW()
				ELSE borrowers.updated_at
			END
		RETURNING id, (xmax = 0) AS inserted
	`

	var res model.Resolution
	err := tx.QueryRow(ctx, query, pgx.NamedArgs{
		"name":           name,
		"classification": classification,
	}).Scan(&res.ID, &res.Inserted)
	if err != nil {
		return model.Resolution{}, fmt.Errorf("failed to upsert borrower: %w", err)
	}

	return res, nil
}

// FindByName implements RepositoryInterface.FindByName
func (r *postgresRepository) FindByName(ctx context.Context, name string) (*model.Borrower, error) {
	query := `
		SELECT id, name, classification, created_at, updated_at
		FROM borrowers
		WHERE name = @name
	`

	var b model.Borrower
	err := r.pool.QueryRow(ctx, query, pgx.NamedArgs{"name": name}).Scan(
		&b.ID,
		&b.Name,
		&b.Classification,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBorrowerNotFound
		}
		return nil, fmt.Errorf("failed to get borrower: %w", err)
	}

	return &b, nil
}

// ListRoster implements RepositoryInterface.ListRoster
// Three reads inside one REPEATABLE READ snapshot so the pieces agree.
func (r *postgresRepository) ListRoster(ctx context.Context) ([]model.RosterEntry, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin roster snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	entries, err := r.listBorrowers(ctx, tx)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]*model.RosterEntry, len(entries))
	for i := range entries {
		index[entries[i].ID] = &entries[i]
	}

	if err := r.attachActiveItems(ctx, tx, index); err != nil {
		return nil, err
	}

	if err := r.attachHistory(ctx, tx, index); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *postgresRepository) listBorrowers(ctx context.Context, tx pgx.Tx) ([]model.RosterEntry, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, name, classification
		FROM borrowers
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	defer rows.Close()

	entries := make([]model.RosterEntry, 0)
	for rows.Next() {
		e := model.RosterEntry{
			Items:   []model.RosterItem{},
			History: []model.RosterHistory{},
		}
		if err := rows.Scan(&e.ID, &e.Name, &e.Classification); err != nil {
			return nil, fmt.Errorf("failed to scan borrower: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *postgresRepository) attachActiveItems(ctx context.Context, tx pgx.Tx, index map[int64]*model.RosterEntry) error {
	rows, err := tx.Query(ctx, `
		SELECT current_borrower_id, id, title, author, isbn, genre, checked_out_at
		FROM items
		WHERE NOT available
		ORDER BY checked_out_at ASC, id ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to list active loans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var borrowerID int64
		var it model.RosterItem
		if err := rows.Scan(&borrowerID, &it.ID, &it.Title, &it.Author, &it.ISBN, &it.Genre, &it.CheckedOutAt); err != nil {
			return fmt.Errorf("failed to scan active loan: %w", err)
		}
		if e, ok := index[borrowerID]; ok {
			e.Items = append(e.Items, it)
		}
	}

	return rows.Err()
}

func (r *postgresRepository) attachHistory(ctx context.Context, tx pgx.Tx, index map[int64]*model.RosterEntry) error {
	rows, err := tx.Query(ctx, `
		SELECT h.borrower_id, h.item_id, i.title, i.isbn,
		       h.checked_out_at, h.checked_in_at, h.duration_ms
		FROM loan_history h
		JOIN items i ON i.id = h.item_id
		ORDER BY h.checked_in_at DESC, h.id DESC
	`)
	if err != nil {
		return fmt.Errorf("failed to list loan history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var borrowerID int64
		var h model.RosterHistory
		if err := rows.Scan(&borrowerID, &h.ItemID, &h.Title, &h.ISBN, &h.CheckedOutAt, &h.CheckedInAt, &h.DurationMs); err != nil {
			return fmt.Errorf("failed to scan loan history: %w", err)
		}
		if e, ok := index[borrowerID]; ok {
			e.History = append(e.History, h)
		}
	}

	return rows.Err()
}
