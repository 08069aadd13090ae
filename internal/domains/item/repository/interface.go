package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"classlib-backend/internal/domains/item/model"
)

// RepositoryInterface defines the contract for item data access
type RepositoryInterface interface {
	// ========================================
	// LOAN STATE (checkout / return engine)
	// ========================================

	// LockByID reads the item with SELECT ... FOR UPDATE.
	// Returns ErrItemNotFound if not exists.
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Item, error)

	// MarkCheckedOut moves a locked, available item to checked out
	MarkCheckedOut(ctx context.Context, tx pgx.Tx, id, borrowerID int64, at time.Time) error

	// MarkReturned moves a locked, checked out item back to available
	MarkReturned(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error

	// ========================================
	// DESCRIPTIVE DATA (importer)
	// ========================================

	// LockIDAllocation serializes item imports for the rest of tx so ids
	// handed out from MaxID cannot collide with a concurrent import.
	LockIDAllocation(ctx context.Context, tx pgx.Tx) error

	// MaxID returns the highest item id, 0 when there are none
	MaxID(ctx context.Context, tx pgx.Tx) (int64, error)

	// Upsert inserts the item or overwrites its descriptive fields.
	// Loan state is untouched. inserted is false on update.
	Upsert(ctx context.Context, tx pgx.Tx, fields model.ItemFields) (inserted bool, err error)

	// ========================================
	// READS
	// ========================================

	GetByID(ctx context.Context, id int64) (*model.Item, error)

	// List returns the item projection ordered by id
	List(ctx context.Context, filter model.ListItemsRequest) ([]model.ItemView, error)
}
