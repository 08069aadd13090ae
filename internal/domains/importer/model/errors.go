package model

import (
	"errors"

	"classlib-backend/internal/shared"
)

var (
	ErrUnsupportedFormat = shared.NewError(shared.ErrValidation, "file must be CSV or XLSX")
	ErrEmptyFile         = shared.NewError(shared.ErrValidation, "file has no header row")
	ErrTooManyRows       = shared.NewError(shared.ErrValidation, "file exceeds the row limit")
	ErrMissingColumn     = shared.NewError(shared.ErrValidation, "file is missing a required column")
	ErrMissingFile       = shared.NewError(shared.ErrValidation, "file is required (multipart/form-data)")

	ErrRunNotFound = shared.NewError(shared.ErrNotFound, "import run not found")

	// ErrAsyncUnavailable: async imports need object storage and the job queue.
	ErrAsyncUnavailable = shared.NewError(shared.ErrUnavailable, "async imports are not available")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
