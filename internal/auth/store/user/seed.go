package user

import (
	"context"
	"fmt"

	"wardstock/internal/auth/credentials"
	"wardstock/internal/auth/models"
	"wardstock/pkg/domain"
)

// Saver is implemented by both user stores.
type Saver interface {
	Save(ctx context.Context, user *models.User) error
}

// demoUsers covers one account per role. The director keeps a legacy
// plain-text secret so both verifier paths are reachable in development.
var demoUsers = []struct {
	id, name, role, password string
	legacy                   bool
}{
	{id: "N1", name: "Nina", role: "n", password: "nurse123"},
	{id: "M1", name: "Marco", role: "m", password: "manager123"},
	{id: "D1", name: "Dana", role: "d", password: "director123", legacy: true},
}

// SeedDemoUsers writes the demo accounts into s.
func SeedDemoUsers(ctx context.Context, s Saver) error {
	for _, du := range demoUsers {
		secret := du.password
		if !du.legacy {
			hashed, err := credentials.Hash(du.password)
			if err != nil {
				return fmt.Errorf("hash demo password for %s: %w", du.id, err)
			}
			secret = hashed
		}
		u := &models.User{ID: domain.UserID(du.id), Name: du.name, Role: du.role, Password: secret}
		if err := s.Save(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", du.id, err)
		}
	}
	return nil
}
