package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/booking"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// Seed order puts G1 (Garden, capacity 4) at table id 3.
const tableG1 = uint64(3)

// testClock is a mutable clock so tests can jump past hold expiry.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// env bundles everything a handler test needs: the routed Echo instance,
// the clock driving the policy, direct repository access and the captured
// lifecycle events.
type env struct {
	e            *echo.Echo
	clock        *testClock
	policy       *booking.Policy
	reservations *repository.ReservationRepo
	events       *[]queue.ReservationEvent
}

func newEnv(t *testing.T) *env {
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

	clock := &testClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	policy := booking.NewPolicy(clock)

	areas := repository.NewAreaRepo(db)
	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)

	events := &[]queue.ReservationEvent{}
	capture := func(_ context.Context, ev queue.ReservationEvent) error {
		*events = append(*events, ev)
		return nil
	}

	catalog := NewCatalogHandler(areas, tables)
	rh := NewReservationHandler(policy, tables, reservations, capture)

	e := echo.New()
	v1 := e.Group("/v1")
	v1.GET("/areas", catalog.GetAreas)
	v1.GET("/tables", catalog.GetTables)
	v1.GET("/tables/available", catalog.GetAvailableTables)
	v1.POST("/reservations", rh.Create)
	v1.GET("/reservations", rh.List)
	v1.POST("/reservations/:id/accept", rh.Accept)
	v1.POST("/reservations/:id/decline", rh.Decline)
	v1.DELETE("/reservations/:id", rh.Cancel)

	return &env{
		e:            e,
		clock:        clock,
		policy:       policy,
		reservations: reservations,
		events:       events,
	}
}

// do performs a request against the routed Echo instance and decodes the
// JSON response body into a generic map.
func (te *env) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	te.e.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec.Code, decoded
}

// createBody is a valid admission request for G1 two days out, inside
// every default policy rule.
func createBody() map[string]any {
	return map[string]any{
		"table_id": tableG1,
		"name":     "Alice",
		"date":     "2025-03-12",
		"time":     "18:00",
		"guests":   4,
	}
}

func (te *env) create(t *testing.T) uint64 {
	t.Helper()
	code, resp := te.do(t, http.MethodPost, "/v1/reservations", createBody())
	require.Equal(t, http.StatusCreated, code, "body: %v", resp)
	return uint64(resp["id"].(float64))
}
