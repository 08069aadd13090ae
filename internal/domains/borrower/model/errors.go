package model

import (
	"errors"

	"classlib-backend/internal/shared"
)

// ===================================
// DOMAIN ERRORS
// ===================================

var (
	// ErrBlankName is returned when a borrower name is empty after trimming
	ErrBlankName = shared.NewError(shared.ErrValidation, "borrower name is required")

	// ErrBorrowerNotFound is returned by lookups by name
	ErrBorrowerNotFound = shared.NewError(shared.ErrNotFound, "borrower not found")
)

// IsBlankNameError checks if error is a blank name error
func IsBlankNameError(err error) bool {
	return errors.Is(err, ErrBlankName)
}

// IsNotFoundError checks if error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBorrowerNotFound)
}
