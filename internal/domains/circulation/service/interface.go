package service

import (
	"context"

	"classlib-backend/internal/domains/circulation/model"
)

// ServiceInterface is the checkout/return engine.
type ServiceInterface interface {
	// CheckOut lends an available item to the named borrower, creating the
	// borrower on first use.
	CheckOut(ctx context.Context, itemID int64, req model.CheckoutRequest) error

	// Return closes the active loan of an item and records it in the history.
	Return(ctx context.Context, itemID int64) (*model.HistoryEntry, error)

	// ItemHistory lists the completed loans of an item, oldest first.
	ItemHistory(ctx context.Context, itemID int64) ([]model.HistoryEntry, error)
}

// RosterInvalidator is notified after every committed loan change.
type RosterInvalidator interface {
	Invalidate(ctx context.Context, reason string)
}
