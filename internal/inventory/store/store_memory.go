package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"wardstock/internal/inventory/models"
	"wardstock/pkg/domain"
	"wardstock/pkg/platform/sentinel"
)

// InMemory is the inventory store used when no database is configured.
type InMemory struct {
	mu    sync.RWMutex
	items map[domain.ItemID]*models.Item
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[domain.ItemID]*models.Item)}
}

// List returns every item ordered by name.
func (s *InMemory) List(_ context.Context) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Item, 0, len(s.items))
	for _, it := range s.items {
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.ItemID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *it
	return &cp, nil
}

// Create inserts item, failing with ErrAlreadyUsed when the ID is taken.
func (s *InMemory) Create(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; ok {
		return fmt.Errorf("item %s: %w", item.ID, sentinel.ErrAlreadyUsed)
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

// UpdateQuantity sets only the quantity and returns the updated row.
func (s *InMemory) UpdateQuantity(_ context.Context, id domain.ItemID, quantity int) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, sentinel.ErrNotFound)
	}
	it.Quantity = quantity
	cp := *it
	return &cp, nil
}

// Update overwrites name and quantity and returns the updated row.
func (s *InMemory) Update(_ context.Context, id domain.ItemID, name string, quantity int) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, sentinel.ErrNotFound)
	}
	it.Name = name
	it.Quantity = quantity
	cp := *it
	return &cp, nil
}

// Delete removes the item and returns the removed row.
func (s *InMemory) Delete(_ context.Context, id domain.ItemID) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.items, id)
	return it, nil
}
