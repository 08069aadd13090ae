package model

import (
	"errors"

	"classlib-backend/internal/shared"
)

// ===================================
// DOMAIN ERRORS
// ===================================

var (
	// ErrItemAlreadyCheckedOut is returned by CheckOut on an item that is on loan
	ErrItemAlreadyCheckedOut = shared.NewError(shared.ErrConflict, "item is already checked out")

	// ErrItemNotCheckedOut is returned by Return on an available item
	ErrItemNotCheckedOut = shared.NewError(shared.ErrConflict, "item is not checked out")
)

// IsConflictError checks if error is a loan state conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrItemAlreadyCheckedOut) || errors.Is(err, ErrItemNotCheckedOut)
}
