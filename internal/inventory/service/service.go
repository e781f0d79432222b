// Package service sequences authorization, validation, the store write and
// the audit entry for every inventory operation.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wardstock/internal/audit"
	"wardstock/internal/inventory/models"
	"wardstock/internal/platform/metrics"
	"wardstock/internal/policy"
	"wardstock/pkg/domain"
	dErrors "wardstock/pkg/domain-errors"
	"wardstock/pkg/platform/sentinel"
	"wardstock/pkg/requestcontext"
)

type Store interface {
	List(ctx context.Context) ([]*models.Item, error)
	FindByID(ctx context.Context, id domain.ItemID) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	UpdateQuantity(ctx context.Context, id domain.ItemID, quantity int) (*models.Item, error)
	Update(ctx context.Context, id domain.ItemID, name string, quantity int) (*models.Item, error)
	Delete(ctx context.Context, id domain.ItemID) (*models.Item, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, actorID domain.UserID, itemID domain.ItemID, action, details string) (domain.LogID, error)
}

const msgItemNotFound = "Item not found"

type Service struct {
	store   Store
	audit   AuditRecorder
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, recorder AuditRecorder, opts ...Option) *Service {
	s := &Service{store: store, audit: recorder, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]*models.Item, error) {
	if err := s.authorize(ctx, policy.ActionReadItem); err != nil {
		return nil, err
	}
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list inventory")
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Item, error) {
	if err := s.authorize(ctx, policy.ActionReadItem); err != nil {
		return nil, err
	}
	item, err := s.store.FindByID(ctx, domain.ItemID(id))
	if err != nil {
		return nil, translateStoreErr(err, "failed to load item")
	}
	return item, nil
}

// Create inserts a new item and records "added". An absent quantity is 0.
func (s *Service) Create(ctx context.Context, req models.CreateRequest) (*models.Item, error) {
	if err := s.authorize(ctx, policy.ActionCreateItem); err != nil {
		return nil, err
	}

	itemID, err := domain.ParseItemID(req.ItemID)
	if err != nil {
		return nil, err
	}
	if req.ItemName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "item_name is required")
	}
	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "quantity must be a non-negative integer")
	}

	item := &models.Item{ID: itemID, Name: req.ItemName, Quantity: quantity}
	if err := s.store.Create(ctx, item); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeValidation, "Item ID already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create item")
	}
	s.metrics.IncrementInventoryMutation(audit.ActionAdded)

	actor := requestcontext.ActorFrom(ctx)
	if err := s.record(ctx, itemID, audit.ActionAdded, fmt.Sprintf("%s added %s", actor.Name, item.Name)); err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial update. Nurses change quantity only; a request
// that would rename the item is denied. Managers and directors overwrite the
// name with whatever was sent, including nothing.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateRequest) (*models.Item, error) {
	if err := s.authorize(ctx, policy.ActionUpdateItem); err != nil {
		return nil, err
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "quantity must be a non-negative integer")
	}

	itemID := domain.ItemID(id)
	current, err := s.store.FindByID(ctx, itemID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to load item")
	}

	var changes []policy.Field
	if req.ItemName != nil && *req.ItemName != "" && *req.ItemName != current.Name {
		changes = append(changes, policy.FieldItemName)
	}
	if req.Quantity != nil {
		changes = append(changes, policy.FieldQuantity)
	}
	actor := requestcontext.ActorFrom(ctx)
	if d := policy.CanPerform(actor.Role, policy.ActionUpdateItem, changes...); !d.Allowed {
		return nil, s.deny(ctx, policy.ActionUpdateItem, d)
	}

	quantity := current.Quantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	var (
		updated *models.Item
		details string
	)
	if canRename(actor.Role) {
		name := ""
		if req.ItemName != nil {
			name = *req.ItemName
		} else {
			// TODO: preserve the stored name on omit once product confirms the
			// inventory update should merge like the log update does.
			s.logger.WarnContext(ctx, "item update without item_name overwrites stored name",
				"item_id", id,
				"previous_name", current.Name,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		updated, err = s.store.Update(ctx, itemID, name, quantity)
		display := name
		if display == "" {
			display = current.Name
		}
		details = fmt.Sprintf("%s updated %s", actor.Name, display)
	} else {
		updated, err = s.store.UpdateQuantity(ctx, itemID, quantity)
		details = fmt.Sprintf("%s updated quantity of %s", actor.Name, current.Name)
	}
	if err != nil {
		return nil, translateStoreErr(err, "failed to update item")
	}
	s.metrics.IncrementInventoryMutation(audit.ActionUpdated)

	if err := s.record(ctx, itemID, audit.ActionUpdated, details); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the item and records "deleted" with its last name.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.authorize(ctx, policy.ActionDeleteItem); err != nil {
		return err
	}
	itemID := domain.ItemID(id)
	removed, err := s.store.Delete(ctx, itemID)
	if err != nil {
		return translateStoreErr(err, "failed to delete item")
	}
	s.metrics.IncrementInventoryMutation(audit.ActionDeleted)

	actor := requestcontext.ActorFrom(ctx)
	return s.record(ctx, itemID, audit.ActionDeleted, fmt.Sprintf("%s deleted %s", actor.Name, removed.Name))
}

func (s *Service) authorize(ctx context.Context, action policy.Action) error {
	actor := requestcontext.ActorFrom(ctx)
	if actor.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "Access token required")
	}
	if d := policy.CanPerform(actor.Role, action); !d.Allowed {
		return s.deny(ctx, action, d)
	}
	return nil
}

func (s *Service) deny(ctx context.Context, action policy.Action, d policy.Decision) error {
	actor := requestcontext.ActorFrom(ctx)
	s.metrics.IncrementPolicyDenial(string(action))
	s.logger.WarnContext(ctx, "policy denied inventory action",
		"action", string(action),
		"user_id", actor.UserID.String(),
		"role", string(actor.Role),
		"reason", d.Reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.New(dErrors.CodeForbidden, d.Reason)
}

// record writes the audit entry. The mutation has committed either way.
func (s *Service) record(ctx context.Context, itemID domain.ItemID, action, details string) error {
	actor := requestcontext.ActorFrom(ctx)
	if _, err := s.audit.Record(ctx, actor.UserID, itemID, action, details); err != nil {
		return err
	}
	return nil
}

func canRename(role domain.Role) bool {
	for _, f := range policy.UpdatableFields(role) {
		if f == policy.FieldItemName {
			return true
		}
	}
	return false
}

func translateStoreErr(err error, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msgItemNotFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
