package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

func tableNames(tables []TableWithArea) []string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	return names
}

func TestListTables(t *testing.T) {
	repo := NewTableRepo(newTestDB(t))
	ctx := context.Background()

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	downstairs := uint64(1)
	some, err := repo.List(ctx, &downstairs)
	require.NoError(t, err)
	assert.Equal(t, []string{"D1", "D2"}, tableNames(some))
	assert.Equal(t, "Downstairs", some[0].AreaName)
}

func TestFindAvailableOrdersBySmallestSufficient(t *testing.T) {
	repo := NewTableRepo(newTestDB(t))
	ctx := context.Background()

	q := AvailabilityQuery{Date: "2025-03-12", Time: "18:00", Guests: 2, Level: 1, Outdoor: false}
	got, err := repo.FindAvailable(ctx, q)
	require.NoError(t, err)
	// D2 seats 2, D1 seats 4: smallest sufficient table first.
	assert.Equal(t, []string{"D2", "D1"}, tableNames(got))

	q.Guests = 3
	got, err = repo.FindAvailable(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"D1"}, tableNames(got))

	q.Guests = 5
	got, err = repo.FindAvailable(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, got, "no level-1 indoor table seats 5")
}

func TestFindAvailableIsIdempotent(t *testing.T) {
	repo := NewTableRepo(newTestDB(t))
	ctx := context.Background()

	q := AvailabilityQuery{Date: "2025-03-12", Time: "18:00", Guests: 2, Level: 1, Outdoor: false}
	first, err := repo.FindAvailable(ctx, q)
	require.NoError(t, err)
	second, err := repo.FindAvailable(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindAvailableExcludesHeldSlots(t *testing.T) {
	db := newTestDB(t)
	tables := NewTableRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	expiry := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	rec := pendingRecord(tableG1, "2025-03-12", "18:00", expiry)
	require.NoError(t, reservations.Create(ctx, rec))

	garden := AvailabilityQuery{Date: "2025-03-12", Time: "18:00", Guests: 4, Level: 1, Outdoor: true}
	got, err := tables.FindAvailable(ctx, garden)
	require.NoError(t, err)
	assert.Empty(t, got, "G1 is held at this exact slot")

	// A different time on the same date is free.
	garden.Time = "19:00"
	got, err = tables.FindAvailable(ctx, garden)
	require.NoError(t, err)
	assert.Equal(t, []string{"G1"}, tableNames(got))

	// Declined reservations stop blocking the slot.
	_, err = reservations.Decline(ctx, rec.ID)
	require.NoError(t, err)
	garden.Time = "18:00"
	got, err = tables.FindAvailable(ctx, garden)
	require.NoError(t, err)
	assert.Equal(t, []string{"G1"}, tableNames(got))
}

func TestFindAvailableAcceptedAlsoBlocks(t *testing.T) {
	db := newTestDB(t)
	tables := NewTableRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()

	expiry := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	rec := pendingRecord(tableG1, "2025-03-12", "18:00", expiry)
	require.NoError(t, reservations.Create(ctx, rec))
	accepted, err := reservations.Accept(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusAccepted, accepted.Status)

	q := AvailabilityQuery{Date: "2025-03-12", Time: "18:00", Guests: 4, Level: 1, Outdoor: true}
	got, err := tables.FindAvailable(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTableExists(t *testing.T) {
	repo := NewTableRepo(newTestDB(t))
	ctx := context.Background()

	ok, err := repo.Exists(ctx, tableG1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}
