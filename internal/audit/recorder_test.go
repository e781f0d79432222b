package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardstock/internal/logs/models"
	"wardstock/internal/platform/metrics"
	"wardstock/pkg/domain"
	dErrors "wardstock/pkg/domain-errors"
	"wardstock/pkg/requestcontext"
	pkgtestutil "wardstock/pkg/testutil"
)

type captureStore struct {
	entries []*models.Entry
	err     error
}

func (c *captureStore) Insert(_ context.Context, e *models.Entry) error {
	if c.err != nil {
		return c.err
	}
	c.entries = append(c.entries, e)
	return nil
}

func TestNewLogIDUsesRequestMillis(t *testing.T) {
	rec := NewRecorder(&captureStore{})
	ctx := requestcontext.WithTime(context.Background(), pkgtestutil.FixedNow)
	assert.Equal(t, domain.LogID("LOG1741944600000"), rec.NewLogID(ctx))
}

func TestNewLogIDStrictlyIncreasesWithinMillisecond(t *testing.T) {
	rec := NewRecorder(&captureStore{})
	ctx := requestcontext.WithTime(context.Background(), pkgtestutil.FixedNow)

	assert.Equal(t, domain.LogID("LOG1741944600000"), rec.NewLogID(ctx))
	assert.Equal(t, domain.LogID("LOG1741944600001"), rec.NewLogID(ctx))

	earlier := requestcontext.WithTime(context.Background(), pkgtestutil.FixedNow.Add(-time.Second))
	assert.Equal(t, domain.LogID("LOG1741944600002"), rec.NewLogID(earlier))
}

func TestNewLogIDUniqueUnderConcurrency(t *testing.T) {
	rec := NewRecorder(&captureStore{})
	ctx := requestcontext.WithTime(context.Background(), pkgtestutil.FixedNow)

	const workers = 50
	ids := make(chan domain.LogID, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- rec.NewLogID(ctx)
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[domain.LogID]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "duplicate log id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestRecord(t *testing.T) {
	store := &captureStore{}
	rec := NewRecorder(store)
	ctx := pkgtestutil.ActorContext(pkgtestutil.Manager)

	id, err := rec.Record(ctx, "M1", "A1", ActionAdded, "Marco added Gauze")
	require.NoError(t, err)
	require.Len(t, store.entries, 1)

	e := store.entries[0]
	assert.Equal(t, id, e.ID)
	assert.Equal(t, domain.UserID("M1"), e.UserID)
	assert.Equal(t, domain.ItemID("A1"), e.ItemID)
	assert.Equal(t, "added", e.Action)
	require.NotNil(t, e.Details)
	assert.Equal(t, "Marco added Gauze", *e.Details)
	assert.Equal(t, pkgtestutil.FixedNow, e.Timestamp)
}

func TestRecordFailureIsInternalAndCounted(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	rec := NewRecorder(&captureStore{err: errors.New("disk full")},
		WithMetrics(m),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	_, err := rec.Record(pkgtestutil.ActorContext(pkgtestutil.Director), "D1", "A1", ActionDeleted, "Dana deleted Gauze")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditWriteFailures))
}
