// Package service validates and applies manual audit-log entries and edits.
// System entries written after inventory mutations go through the audit
// recorder instead.
package service

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	invmodels "wardstock/internal/inventory/models"
	"wardstock/internal/logs/models"
	"wardstock/internal/platform/metrics"
	"wardstock/internal/policy"
	"wardstock/pkg/domain"
	dErrors "wardstock/pkg/domain-errors"
	"wardstock/pkg/platform/sentinel"
	"wardstock/pkg/requestcontext"
)

type Store interface {
	Insert(ctx context.Context, entry *models.Entry) error
	FindByID(ctx context.Context, id domain.LogID) (*models.Entry, error)
	Update(ctx context.Context, id domain.LogID, patch models.Patch) error
	FindView(ctx context.Context, id domain.LogID) (*models.EntryView, error)
	List(ctx context.Context) ([]*models.EntryView, error)
}

// Items is used to check that a referenced item exists.
type Items interface {
	FindByID(ctx context.Context, id domain.ItemID) (*invmodels.Item, error)
}

const (
	msgRequired       = "log_id, item_id, and action are required"
	msgActionTooLong  = "action must be 50 characters or less"
	msgUpdateTooLong  = "Action must be 50 characters or less"
	msgDuplicateLogID = "Log ID already exists"
	msgItemMissing    = "Item does not exist"
	msgLogNotFound    = "Log entry not found"
)

type Service struct {
	store   Store
	items   Items
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

func New(store Store, items Items, opts ...Option) *Service {
	s := &Service{store: store, items: items, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]*models.EntryView, error) {
	if err := s.authorize(ctx, policy.ActionReadLog); err != nil {
		return nil, err
	}
	views, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list logs")
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.EntryView, error) {
	if err := s.authorize(ctx, policy.ActionReadLog); err != nil {
		return nil, err
	}
	return s.view(ctx, domain.LogID(id))
}

// Create appends a manual entry attributed to the caller. Checks run in a
// fixed order and the first failure is reported.
func (s *Service) Create(ctx context.Context, req models.CreateRequest) (*models.EntryView, error) {
	if err := s.authorize(ctx, policy.ActionCreateLog); err != nil {
		return nil, err
	}

	if req.LogID == "" || req.ItemID == "" || req.Action == "" {
		return nil, dErrors.New(dErrors.CodeValidation, msgRequired)
	}
	logID, err := domain.ParseLogID(req.LogID)
	if err != nil {
		return nil, err
	}
	itemID, err := domain.ParseItemID(req.ItemID)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Action) > models.MaxActionLength {
		return nil, dErrors.New(dErrors.CodeValidation, msgActionTooLong)
	}

	if _, err := s.store.FindByID(ctx, logID); err == nil {
		return nil, dErrors.New(dErrors.CodeValidation, msgDuplicateLogID)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check log id")
	}
	if err := s.requireItem(ctx, itemID); err != nil {
		return nil, err
	}

	var details *string
	if req.Details != nil && *req.Details != "" {
		details = req.Details
	}
	entry := &models.Entry{
		ID:        logID,
		UserID:    requestcontext.ActorFrom(ctx).UserID,
		ItemID:    itemID,
		Action:    req.Action,
		Details:   details,
		Timestamp: requestcontext.Now(ctx),
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeValidation, msgDuplicateLogID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add log")
	}
	return s.view(ctx, logID)
}

// Update edits an existing entry. Omitted or empty item_id and action keep
// their stored values; details is replaced whenever it is sent, so "" clears
// it. The author and timestamp never change.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateRequest) (*models.EntryView, error) {
	if err := s.authorize(ctx, policy.ActionUpdateLog); err != nil {
		return nil, err
	}
	logID := domain.LogID(id)
	if _, err := s.store.FindByID(ctx, logID); err != nil {
		return nil, translateStoreErr(err, "failed to load log")
	}

	var patch models.Patch
	if req.ItemID != nil && *req.ItemID != "" {
		itemID := domain.ItemID(*req.ItemID)
		if err := s.requireItem(ctx, itemID); err != nil {
			return nil, err
		}
		patch.ItemID = &itemID
	}
	if req.Action != nil && *req.Action != "" {
		if utf8.RuneCountInString(*req.Action) > models.MaxActionLength {
			return nil, dErrors.New(dErrors.CodeValidation, msgUpdateTooLong)
		}
		patch.Action = req.Action
	}
	patch.Details = req.Details

	if err := s.store.Update(ctx, logID, patch); err != nil {
		return nil, translateStoreErr(err, "failed to update log")
	}
	return s.view(ctx, logID)
}

func (s *Service) view(ctx context.Context, id domain.LogID) (*models.EntryView, error) {
	v, err := s.store.FindView(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, "failed to load log")
	}
	return v, nil
}

func (s *Service) requireItem(ctx context.Context, id domain.ItemID) error {
	if _, err := s.items.FindByID(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, msgItemMissing)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check item")
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, action policy.Action) error {
	actor := requestcontext.ActorFrom(ctx)
	if actor.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "Access token required")
	}
	d := policy.CanPerform(actor.Role, action)
	if d.Allowed {
		return nil
	}
	s.metrics.IncrementPolicyDenial(string(action))
	s.logger.WarnContext(ctx, "policy denied log action",
		"action", string(action),
		"user_id", actor.UserID.String(),
		"role", string(actor.Role),
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.New(dErrors.CodeForbidden, d.Reason)
}

func translateStoreErr(err error, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msgLogNotFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
