package user

import (
	"context"
	"fmt"
	"sync"

	"wardstock/internal/auth/models"
	"wardstock/pkg/domain"
	"wardstock/pkg/platform/sentinel"
)

// InMemoryUserStore backs development runs without a database.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]*models.User
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[domain.UserID]*models.User)}
}

// Save inserts or replaces a user. Only seeding and tests write users.
func (s *InMemoryUserStore) Save(_ context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id domain.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}
