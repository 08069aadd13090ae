package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HistoryEntry is one completed loan. Entries are append-only.
type HistoryEntry struct {
	ID           int64      `json:"id"`
	BorrowerID   int64      `json:"borrower_id"`
	ItemID       int64      `json:"item_id"`
	CheckedOutAt *time.Time `json:"checked_out_at"`
	CheckedInAt  time.Time  `json:"checked_in_at"`
	DurationMs   *int64     `json:"duration_ms"`
	CreatedAt    time.Time  `json:"created_at"`
}

// LoanDuration is checkedIn - checkedOut in milliseconds, or nil when the
// checkout instant is unknown.
func LoanDuration(checkedOut *time.Time, checkedIn time.Time) *int64 {
	if checkedOut == nil || checkedOut.IsZero() {
		return nil
	}
	ms := checkedIn.Sub(*checkedOut).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return &ms
}

// ========================================
// REQUEST DTO
// ========================================

// CheckoutRequest is the body of POST /items/:id/checkout.
// studentName / classId are accepted from older clients.
type CheckoutRequest struct {
	BorrowerName   string  `json:"borrower_name"`
	Classification *string `json:"classification"`

	StudentName string  `json:"studentName,omitempty"`
	ClassID     *string `json:"classId,omitempty"`
}

// Normalize folds the legacy aliases in and trims the name.
func (r *CheckoutRequest) Normalize() {
	if strings.TrimSpace(r.BorrowerName) == "" && r.StudentName != "" {
		r.BorrowerName = r.StudentName
	}
	if r.Classification == nil && r.ClassID != nil {
		r.Classification = r.ClassID
	}
	r.BorrowerName = strings.TrimSpace(r.BorrowerName)
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BorrowerName, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&r.Classification, validation.RuneLength(0, 100)),
	)
}
