package model

import "time"

// Item is a physical item that can be lent.
// Invariant: Available == (CurrentBorrowerID == nil) == (CheckedOutAt == nil).
type Item struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Author            string     `json:"author"`
	ISBN              *string    `json:"isbn,omitempty"`
	Genre             *string    `json:"genre,omitempty"`
	Available         bool       `json:"available"`
	CurrentBorrowerID *int64     `json:"current_borrower_id,omitempty"`
	CheckedOutAt      *time.Time `json:"checked_out_at,omitempty"`
	LastReturnedAt    *time.Time `json:"last_returned_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsCheckedOut reports whether the item is on loan.
func (i *Item) IsCheckedOut() bool {
	return !i.Available
}

// ItemFields are the descriptive fields written by imports.
// Loan state is never part of it.
type ItemFields struct {
	ID     int64
	Title  string
	Author string
	ISBN   *string
	Genre  *string
}

// ItemView is the item projection served to clients.
type ItemView struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Author         string     `json:"author"`
	ISBN           *string    `json:"isbn"`
	Genre          *string    `json:"genre"`
	Available      bool       `json:"available"`
	BorrowerName   *string    `json:"borrower_name"`
	CheckedOutAt   *time.Time `json:"checked_out_at"`
	LastReturnedAt *time.Time `json:"last_returned_at"`
}

// ListItemsRequest filters the item projection.
type ListItemsRequest struct {
	Available *bool  `form:"available"`
	Query     string `form:"q"` // matches title, author or borrower name
}
