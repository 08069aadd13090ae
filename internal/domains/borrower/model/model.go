package model

import "time"

// Borrower is a person identified by name (natural key).
type Borrower struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Classification *string   `json:"classification,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Resolution is the outcome of resolving a name to a borrower.
type Resolution struct {
	ID       int64
	Inserted bool // false: the borrower already existed
}

// ========================================
// ROSTER PROJECTION
// ========================================

// RosterEntry is one borrower with the items they hold and their past loans.
type RosterEntry struct {
	ID             int64           `json:"-"`
	Name           string          `json:"name"`
	Classification *string         `json:"classification"`
	Items          []RosterItem    `json:"items"`
	History        []RosterHistory `json:"history"`
}

// RosterItem is an item currently checked out to the borrower.
type RosterItem struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	ISBN         *string   `json:"isbn,omitempty"`
	Genre        *string   `json:"genre,omitempty"`
	CheckedOutAt time.Time `json:"checked_out_at"`
}

// RosterHistory is a completed loan, newest first.
type RosterHistory struct {
	ItemID       int64      `json:"item_id"`
	Title        string     `json:"title"`
	ISBN         *string    `json:"isbn,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at"`
	CheckedInAt  time.Time  `json:"checked_in_at"`
	DurationMs   *int64     `json:"duration_ms"`
}
