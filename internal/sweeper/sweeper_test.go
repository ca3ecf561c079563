package sweeper

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/booking"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

const tableG1 = uint64(3)

func newTestRepo(t *testing.T) *repository.ReservationRepo {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, database.InitSchema(ctx, db, "sqlite3"))
	require.NoError(t, database.Seed(ctx, db))
	return repository.NewReservationRepo(db)
}

func createHold(t *testing.T, repo *repository.ReservationRepo, tod string, expiresAt time.Time) *repository.ReservationRecord {
	t.Helper()
	exp := expiresAt.UTC()
	rec := &repository.ReservationRecord{
		TableID:   tableG1,
		Name:      "Alice",
		Date:      "2025-03-12",
		Time:      tod,
		Guests:    4,
		CreatedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		ExpiresAt: &exp,
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	return rec
}

func TestSweepExpiresStaleHolds(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)

	stale := createHold(t, repo, "18:00", now.Add(-time.Minute))
	fresh := createHold(t, repo, "19:00", now.Add(time.Hour))

	var events []queue.ReservationEvent
	capture := func(_ context.Context, ev queue.ReservationEvent) error {
		events = append(events, ev)
		return nil
	}

	sw := New(repo, time.Minute, booking.FixedClock{At: now}, true, capture)
	assert.Equal(t, 1, sw.Sweep(ctx))

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, got.Status)
	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)

	require.Len(t, events, 1)
	assert.Equal(t, queue.ActionExpired, events[0].Action)
	assert.Equal(t, stale.ID, events[0].ReservationID)
	assert.Equal(t, model.StatusExpired, events[0].Status)
	assert.Equal(t, now.Format(time.RFC3339), events[0].OccurredAt)
}

func TestSweepIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)

	createHold(t, repo, "18:00", now.Add(-time.Minute))

	sw := New(repo, time.Minute, booking.FixedClock{At: now}, true, nil)
	assert.Equal(t, 1, sw.Sweep(ctx))
	assert.Equal(t, 0, sw.Sweep(ctx))
}

func TestSweepSkipsAcceptedWhenPolicySaysSo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)

	rec := createHold(t, repo, "18:00", now.Add(-time.Minute))
	_, err := repo.Accept(ctx, rec.ID)
	require.NoError(t, err)

	sw := New(repo, time.Minute, booking.FixedClock{At: now}, false, nil)
	assert.Equal(t, 0, sw.Sweep(ctx))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, got.Status)

	// Flip the policy and the stale accepted hold lapses.
	sw.ExpireAccepted = true
	assert.Equal(t, 1, sw.Sweep(ctx))
}

func TestNewDefaults(t *testing.T) {
	sw := New(nil, 0, nil, true, nil)
	assert.Equal(t, time.Minute, sw.Interval)
	assert.NotNil(t, sw.Clock)
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)

	sw := New(repo, 10*time.Millisecond, booking.FixedClock{At: now}, true, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
