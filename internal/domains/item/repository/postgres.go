package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"classlib-backend/internal/domains/item/model"
)

// idAllocationLockKey is the pg_advisory_xact_lock key guarding item id allocation.
const idAllocationLockKey int64 = 0x636c6962_69746d73

const itemColumns = `
	id, title, author, isbn, genre, available,
	current_borrower_id, checked_out_at, last_returned_at,
	created_at, updated_at
`

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

func scanItem(row pgx.Row) (*model.Item, error) {
	var it model.Item
	err := row.Scan(
		&it.ID,
		&it.Title,
		&it.Author,
		&it.ISBN,
		&it.Genre,
		&it.Available,
		&it.CurrentBorrowerID,
		&it.CheckedOutAt,
		&it.LastReturnedAt,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// LockByID implements RepositoryInterface.LockByID
func (r *postgresRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = @id FOR UPDATE`

	it, err := scanItem(tx.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to lock item: %w", err)
	}

	return it, nil
}

// MarkCheckedOut implements RepositoryInterface.MarkCheckedOut
func (r *postgresRepository) MarkCheckedOut(ctx context.Context, tx pgx.Tx, id, borrowerID int64, at time.Time) error {
	query := `
		UPDATE items
		SET
			available = FALSE,
			current_borrower_id = @borrower_id,
			checked_out_at = @at,
			last_returned_at = NULL,
			updated_at = NOW()
		WHERE id = @id AND available
	`

	tag, err := tx.Exec(ctx, query, pgx.NamedArgs{
		"id":          id,
		"borrower_id": borrowerID,
		"at":          at,
	})
	if err != nil {
		return fmt.Errorf("failed to mark item checked out: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("mark item %d checked out: %d rows affected", id, tag.RowsAffected())
	}

	return nil
}

// MarkReturned implements RepositoryInterface.MarkReturned
func (r *postgresRepository) MarkReturned(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error {
	query := `
		UPDATE items
		SET
			available = TRUE,
			current_borrower_id = NULL,
			checked_out_at = NULL,
			last_returned_at = @at,
			updated_at = NOW()
		WHERE id = @id AND NOT available
	`

	tag, err := tx.Exec(ctx, query, pgx.NamedArgs{"id": id, "at": at})
	if err != nil {
		return fmt.Errorf("failed to mark item returned: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("mark item %d returned: %d rows affected", id, tag.RowsAffected())
	}

	return nil
}

// LockIDAllocation implements RepositoryInterface.LockIDAllocation
func (r *postgresRepository) LockIDAllocation(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(@key)`, pgx.NamedArgs{"key": idAllocationLockKey}); err != nil {
		return fmt.Errorf("failed to lock item id allocation: %w", err)
	}
	return nil
}

// MaxID implements RepositoryInterface.MaxID
func (r *postgresRepository) MaxID(ctx context.Context, tx pgx.Tx) (int64, error) {
	var maxID int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM items`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to read max item id: %w", err)
	}
	return maxID, nil
}

// Upsert implements RepositoryInterface.Upsert
func (r *postgresRepository) Upsert(ctx context.Context, tx pgx.Tx, fields model.ItemFields) (bool, error) {
	query := `
		INSERT INTO items (id, title, author, isbn, genre)
		VALUES (@id, @title, @author, @isbn, @genre)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			isbn = EXCLUDED.isbn,
			genre = EXCLUDED.genre,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRow(ctx, query, pgx.NamedArgs{
		"id":     fields.ID,
		"title":  fields.Title,
		"author": fields.Author,
		"isbn":   fields.ISBN,
		"genre":  fields.Genre,
	}).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert item: %w", err)
	}

	return inserted, nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = @id`

	it, err := scanItem(r.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return it, nil
}

// List implements RepositoryInterface.List
func (r *postgresRepository) List(ctx context.Context, filter model.ListItemsRequest) ([]model.ItemView, error) {
	query, args, err := buildListQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]model.ItemView, 0)
	for rows.Next() {
		var v model.ItemView
		if err := rows.Scan(
			&v.ID,
			&v.Title,
			&v.Author,
			&v.ISBN,
			&v.Genre,
			&v.Available,
			&v.BorrowerName,
			&v.CheckedOutAt,
			&v.LastReturnedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}
