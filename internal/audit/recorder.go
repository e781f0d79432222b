// Package audit writes the system-generated log entry that follows every
// successful inventory mutation.
package audit

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"

	"wardstock/internal/logs/models"
	"wardstock/internal/platform/metrics"
	"wardstock/pkg/domain"
	dErrors "wardstock/pkg/domain-errors"
	"wardstock/pkg/requestcontext"
)

// Action kinds written by the recorder.
const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Store appends log entries.
type Store interface {
	Insert(ctx context.Context, entry *models.Entry) error
}

// Recorder writes audit entries synchronously. It does not retry: a failed
// write is reported to the caller, whose mutation has already committed.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	// lastID is the millisecond value of the most recent system log ID.
	lastID atomic.Int64
}

type Option func(*Recorder)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func NewRecorder(store Store, opts ...Option) *Recorder {
	r := &Recorder{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewLogID returns "LOG" followed by the request time in Unix milliseconds.
// Within one recorder the numeric part strictly increases: a request landing
// in a millisecond that is already taken gets the next free one, so
// concurrent mutations never share an ID. The entry timestamp stays the
// request time.
func (r *Recorder) NewLogID(ctx context.Context) domain.LogID {
	now := requestcontext.Now(ctx).UnixMilli()
	for {
		last := r.lastID.Load()
		next := max(now, last+1)
		if r.lastID.CompareAndSwap(last, next) {
			return domain.LogID("LOG" + strconv.FormatInt(next, 10))
		}
	}
}

// Record appends one entry attributed to actorID and returns its ID.
func (r *Recorder) Record(ctx context.Context, actorID domain.UserID, itemID domain.ItemID, action, details string) (domain.LogID, error) {
	entry := &models.Entry{
		ID:        r.NewLogID(ctx),
		UserID:    actorID,
		ItemID:    itemID,
		Action:    action,
		Details:   &details,
		Timestamp: requestcontext.Now(ctx),
	}
	if err := r.store.Insert(ctx, entry); err != nil {
		r.metrics.IncrementAuditWriteFailure()
		r.logger.ErrorContext(ctx, "failed to write audit log entry",
			"error", err,
			"log_id", entry.ID.String(),
			"item_id", itemID.String(),
			"action", action,
			"request_id", requestcontext.RequestID(ctx),
		)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to write audit log")
	}
	return entry.ID, nil
}
