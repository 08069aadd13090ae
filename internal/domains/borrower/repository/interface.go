package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"classlib-backend/internal/domains/borrower/model"
)

// RepositoryInterface defines the contract for borrower data access
type RepositoryInterface interface {
	// Upsert inserts the borrower or merges the classification into the
	// existing row: a nil classification never overwrites a stored one.
	// Takes the borrower row lock until tx ends.
	Upsert(ctx context.Context, tx pgx.Tx, name string, classification *string) (model.Resolution, error)

	// FindByName returns ErrBorrowerNotFound if no borrower has that name
	FindByName(ctx context.Context, name string) (*model.Borrower, error)

	// ListRoster builds the roster projection: every borrower ordered by
	// name, with items currently held and completed loans newest first.
	ListRoster(ctx context.Context) ([]model.RosterEntry, error)
}
