// Package revocation holds the token revocation list (TRL) backing logout.
// A revoked jti stays listed only until the token would have expired.
package revocation

import (
	"fmt"
	"time"

	"wardstock/pkg/platform/sentinel"
)

// Clock returns the current time.
type Clock func() time.Time

// validateTTL rejects entries that would already be expired on write.
func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("revocation ttl %s: %w", ttl, sentinel.ErrInvalidState)
	}
	return nil
}
