// Package credentials verifies login passwords against stored secrets.
//
// Two storage formats exist in the users table: bcrypt hashes and legacy
// plain text. The format is detected from the stored value; callers learn
// which scheme matched so legacy logins can be counted until none remain.
package credentials

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	dErrors "wardstock/pkg/domain-errors"
)

// Scheme identifies how a stored secret is encoded.
type Scheme string

const (
	SchemeBcrypt Scheme = "bcrypt"
	SchemePlain  Scheme = "plain"
)

// ErrMismatch is returned when the password does not match the stored secret.
var ErrMismatch = errors.New("credential mismatch")

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// SchemeOf classifies a stored secret.
func SchemeOf(stored string) Scheme {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(stored, p) {
			return SchemeBcrypt
		}
	}
	return SchemePlain
}

// Verify checks password against stored and reports the scheme used.
// A non-match returns ErrMismatch; any other error means the stored value
// could not be checked at all.
func Verify(password, stored string) (Scheme, error) {
	scheme := SchemeOf(stored)
	switch scheme {
	case SchemeBcrypt:
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		if err == nil {
			return scheme, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return scheme, ErrMismatch
		}
		return scheme, fmt.Errorf("could not verify secret: %w", err)
	default:
		if subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1 {
			return scheme, nil
		}
		return scheme, ErrMismatch
	}
}

// Hash creates a bcrypt hash for provisioning users.
func Hash(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "secret is too long")
		}
		return "", fmt.Errorf("could not hash secret: %w", err)
	}
	return string(hashed), nil
}
