package domain

import (
	"strings"

	dErrors "wardstock/pkg/domain-errors"
)

// Role is a staff role carried in session tokens and stored on users.
// Invariant: the value is one of the supported roles.
//
// Usage: construct via ParseRole at trust boundaries (user rows, token
// claims); direct casting bypasses validation.
type Role string

const (
	RoleNurse    Role = "nurse"
	RoleManager  Role = "manager"
	RoleDirector Role = "director"
)

// roleCodes maps the single-letter codes used by the users table.
var roleCodes = map[string]Role{
	"n": RoleNurse,
	"m": RoleManager,
	"d": RoleDirector,
}

var validRoles = map[Role]bool{
	RoleNurse:    true,
	RoleManager:  true,
	RoleDirector: true,
}

// ParseRole accepts either the full role name or its single-letter code,
// case-insensitively.
//
// Errors: returns CodeInvalidInput when the value is empty or unknown.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	if r, ok := roleCodes[s]; ok {
		return r, nil
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}
