package model

import (
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Kind selects what a file imports.
type Kind string

const (
	KindItems     Kind = "items"
	KindBorrowers Kind = "borrowers"
)

// ========================================
// IMPORT RUN MODEL (DB)
// ========================================

// Run status constants
const (
	RunStatusPending    = "pending"
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

// ImportRun tracks one uploaded file from submission to completion.
// Errors holds the row errors of the reconciliation.
type ImportRun struct {
	ID            uuid.UUID  `json:"id"`
	Kind          Kind       `json:"kind"`
	FileName      string     `json:"file_name"`
	ObjectKey     *string    `json:"object_key,omitempty"`
	Status        string     `json:"status"`
	TotalRows     int        `json:"total_rows"`
	InsertedCount int        `json:"inserted_count"`
	UpdatedCount  int        `json:"updated_count"`
	Errors        []RowError `json:"errors"`
	Failure       *string    `json:"failure,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// IsFinished reports whether the run reached a terminal status.
func (r *ImportRun) IsFinished() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// ========================================
// ROW MODELS
// ========================================

// BorrowerRow is one data row of a borrower file.
// Row is the 1-based line number including the header.
type BorrowerRow struct {
	Row            int     `json:"row"`
	Name           string  `json:"name"`
	Classification *string `json:"classification"`
}

func (r BorrowerRow) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// ItemRow is one data row of an item file. ID is kept raw so a malformed id
// is reported against its row.
type ItemRow struct {
	Row      int     `json:"row"`
	ID       *string `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	ISBN     *string `json:"isbn"`
	Genre    *string `json:"genre"`
	Borrower *string `json:"borrower"`
}

func (r ItemRow) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Author, validation.Required),
	)
}

// ========================================
// RESULT
// ========================================

// RowError reports one skipped row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult is the outcome of one reconciliation call.
type ImportResult struct {
	InsertedCount int        `json:"insertedCount"`
	UpdatedCount  int        `json:"updatedCount"`
	Errors        []RowError `json:"errors"`
}

// Count records one upsert outcome.
func (r *ImportResult) Count(inserted bool) {
	if inserted {
		r.InsertedCount++
	} else {
		r.UpdatedCount++
	}
}

// SortErrors orders row errors by row number.
func (r *ImportResult) SortErrors() {
	sort.SliceStable(r.Errors, func(i, j int) bool { return r.Errors[i].Row < r.Errors[j].Row })
}

// ========================================
// REQUEST DTO
// ========================================

// ImportRequest is the form part of POST /imports next to the file.
type ImportRequest struct {
	Kind  Kind `form:"type"`
	Async bool `form:"async"`
}

// Normalize applies the default kind.
func (r *ImportRequest) Normalize() {
	if r.Kind == "" {
		r.Kind = KindItems
	}
}

func (r ImportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kind, validation.Required, validation.In(KindItems, KindBorrowers)),
	)
}
