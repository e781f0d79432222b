package models

import (
	"time"

	"wardstock/pkg/domain"
)

// MaxActionLength bounds the free-text action kind, counted in characters.
const MaxActionLength = 50

// Entry is one audit log row. Timestamp is set once at insert.
type Entry struct {
	ID        domain.LogID
	UserID    domain.UserID
	ItemID    domain.ItemID
	Action    string
	Details   *string
	Timestamp time.Time
}

// EntryView is an entry joined with the names of its actor and item. The
// names are nil when the referenced row no longer exists.
type EntryView struct {
	LogID     string    `json:"log_id"`
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Action    string    `json:"action"`
	Details   *string   `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	UserName  *string   `json:"user_name"`
	ItemName  *string   `json:"item_name"`
}

// Patch holds the fields an update may change. Nil leaves a field as is;
// a non-nil empty Details clears it.
type Patch struct {
	ItemID  *domain.ItemID
	Action  *string
	Details *string
}

// CreateRequest is the body of POST /logs.
type CreateRequest struct {
	LogID   string  `json:"log_id"`
	ItemID  string  `json:"item_id"`
	Action  string  `json:"action"`
	Details *string `json:"details"`
}

// UpdateRequest is the body of PUT /logs/{logId}.
type UpdateRequest struct {
	ItemID  *string `json:"item_id"`
	Action  *string `json:"action"`
	Details *string `json:"details"`
}

// LogResponse wraps a single entry.
type LogResponse struct {
	Log *EntryView `json:"log"`
}

// LogsResponse wraps a list of entries.
type LogsResponse struct {
	Logs []*EntryView `json:"logs"`
}
