package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/database"
)

// newTestDB opens a throwaway SQLite database with the full schema and
// the seeded reference data (4 areas, 5 tables).
func newTestDB(t *testing.T) *sql.DB {
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
	return db
}

// pendingRecord builds a reservation record for table G1 (id 3 in seed
// order) with a future expiry, ready to pass to Create.
func pendingRecord(tableID uint64, date, tod string, expiresAt time.Time) *ReservationRecord {
	exp := expiresAt.UTC()
	return &ReservationRecord{
		TableID:   tableID,
		Name:      "Alice",
		Date:      date,
		Time:      tod,
		Guests:    4,
		CreatedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		ExpiresAt: &exp,
	}
}
