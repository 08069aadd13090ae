package model

import (
	"errors"

	"classlib-backend/internal/shared"
)

var (
	// ErrItemNotFound is returned when no item has the requested id
	ErrItemNotFound = shared.NewError(shared.ErrNotFound, "item not found")

	// ErrInvalidItemID is returned for ids that are not positive integers
	ErrInvalidItemID = shared.NewError(shared.ErrValidation, "item id must be a positive integer")
)

// IsNotFoundError checks if error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}
