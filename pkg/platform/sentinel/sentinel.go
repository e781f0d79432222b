package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into domain errors with a client-facing message.
//
// - ErrNotFound: the row does not exist
// - ErrAlreadyUsed: a unique identifier is already taken
// - ErrUnavailable: the backing store could not be reached
// - ErrInvalidState: the call's arguments cannot be applied (e.g. non-positive TTL)
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
)
