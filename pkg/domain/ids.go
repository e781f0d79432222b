package domain

import (
	"regexp"

	dErrors "wardstock/pkg/domain-errors"
)

// identifierPattern is the shape shared by client-supplied item and log IDs.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,12}$`)

// ItemID identifies an inventory item.
type ItemID string

// LogID identifies an audit log entry. System-generated IDs ("LOG" followed by
// a millisecond timestamp) are longer than the client-supplied limit and are
// never passed through ParseLogID.
type LogID string

// UserID identifies a staff member.
type UserID string

// IsIdentifier reports whether s is 1-12 ASCII letters or digits.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// ParseItemID validates a client-supplied item identifier.
func ParseItemID(s string) (ItemID, error) {
	if !IsIdentifier(s) {
		return "", dErrors.New(dErrors.CodeValidation, "item_id must be 1-12 characters, alphanumeric only")
	}
	return ItemID(s), nil
}

// ParseLogID validates a client-supplied log identifier.
func ParseLogID(s string) (LogID, error) {
	if !IsIdentifier(s) {
		return "", dErrors.New(dErrors.CodeValidation, "log_id must be 1-12 characters, alphanumeric only")
	}
	return LogID(s), nil
}

func (id ItemID) String() string { return string(id) }
func (id LogID) String() string  { return string(id) }
func (id UserID) String() string { return string(id) }
