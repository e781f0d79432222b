package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	authmodels "wardstock/internal/auth/models"
	invmodels "wardstock/internal/inventory/models"
	"wardstock/internal/logs/models"
	"wardstock/pkg/domain"
	"wardstock/pkg/platform/sentinel"
)

// UserDirectory resolves actor names for the joined views.
type UserDirectory interface {
	FindByID(ctx context.Context, id domain.UserID) (*authmodels.User, error)
}

// ItemCatalog resolves item names for the joined views.
type ItemCatalog interface {
	FindByID(ctx context.Context, id domain.ItemID) (*invmodels.Item, error)
}

// InMemory keeps log entries in process memory. Names are resolved at read
// time so that a deleted item shows up with a nil item_name, as it would
// through a LEFT JOIN.
type InMemory struct {
	mu      sync.RWMutex
	entries map[domain.LogID]*models.Entry
	users   UserDirectory
	items   ItemCatalog
}

func NewInMemory(users UserDirectory, items ItemCatalog) *InMemory {
	return &InMemory{
		entries: make(map[domain.LogID]*models.Entry),
		users:   users,
		items:   items,
	}
}

// Insert appends entry, failing with ErrAlreadyUsed when its ID is taken.
func (s *InMemory) Insert(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.ID]; ok {
		return fmt.Errorf("log %s: %w", entry.ID, sentinel.ErrAlreadyUsed)
	}
	s.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.LogID) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("log %s: %w", id, sentinel.ErrNotFound)
	}
	return cloneEntry(e), nil
}

// Update applies patch and leaves the timestamp and author untouched.
func (s *InMemory) Update(_ context.Context, id domain.LogID, patch models.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("log %s: %w", id, sentinel.ErrNotFound)
	}
	if patch.ItemID != nil {
		e.ItemID = *patch.ItemID
	}
	if patch.Action != nil {
		e.Action = *patch.Action
	}
	if patch.Details != nil {
		d := *patch.Details
		e.Details = &d
	}
	return nil
}

func (s *InMemory) FindView(ctx context.Context, id domain.LogID) (*models.EntryView, error) {
	e, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, e), nil
}

// List returns every entry joined with names, newest first.
func (s *InMemory) List(ctx context.Context) ([]*models.EntryView, error) {
	s.mu.RLock()
	entries := make([]*models.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, cloneEntry(e))
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	out := make([]*models.EntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.view(ctx, e))
	}
	return out, nil
}

func (s *InMemory) view(ctx context.Context, e *models.Entry) *models.EntryView {
	v := &models.EntryView{
		LogID:     e.ID.String(),
		UserID:    e.UserID.String(),
		ItemID:    e.ItemID.String(),
		Action:    e.Action,
		Details:   e.Details,
		Timestamp: e.Timestamp,
	}
	if s.users != nil {
		if u, err := s.users.FindByID(ctx, e.UserID); err == nil {
			v.UserName = &u.Name
		}
	}
	if s.items != nil {
		if it, err := s.items.FindByID(ctx, e.ItemID); err == nil {
			v.ItemName = &it.Name
		}
	}
	return v
}

func cloneEntry(e *models.Entry) *models.Entry {
	cp := *e
	if e.Details != nil {
		d := *e.Details
		cp.Details = &d
	}
	return &cp
}
