package repository

import (
	"context"
	"database/sql"
	"errors"
)

// TableRepo provides read access to the tables table and implements the
// availability query.  Tables, like areas, are seeded reference data.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// TableWithArea is a table joined with its owning area's display fields.
// It is the shape returned by listing and availability queries.
type TableWithArea struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	AreaID    uint64 `json:"area_id"`
	AreaName  string `json:"area_name"`
	Level     int    `json:"level"`
	IsOutdoor bool   `json:"is_outdoor"`
}

// List returns all tables joined with their area, optionally restricted to
// a single area.  Results are ordered by area then table name for stable
// output.
func (r *TableRepo) List(ctx context.Context, areaID *uint64) ([]TableWithArea, error) {
	q := `SELECT t.id, t.name, t.capacity, a.id, a.name, a.level, a.is_outdoor
	      FROM tables t
	      JOIN areas a ON a.id = t.area_id`
	args := []interface{}{}
	if areaID != nil {
		q += ` WHERE a.id = ?`
		args = append(args, *areaID)
	}
	q += ` ORDER BY a.id, t.name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTablesWithArea(rows)
}

// Exists reports whether a table with the given id is present.
func (r *TableRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM tables WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AvailabilityQuery describes one availability lookup: the requested slot,
// the party size and the area filter.
type AvailabilityQuery struct {
	Date    string
	Time    string
	Guests  int
	Level   int
	Outdoor bool
}

// FindAvailable returns the tables that could seat the party at the
// requested slot: capacity at least Guests, area matching the level and
// outdoor filters, and no pending or accepted reservation already holding
// the exact (table, date, time).  Results are ordered by capacity then
// name so the smallest sufficient table comes first and identical calls
// return identical sequences.  An empty result means fully booked, not an
// error.
func (r *TableRepo) FindAvailable(ctx context.Context, q AvailabilityQuery) ([]TableWithArea, error) {
	const query = `SELECT t.id, t.name, t.capacity, a.id, a.name, a.level, a.is_outdoor
	               FROM tables t
	               JOIN areas a ON a.id = t.area_id
	               WHERE t.capacity >= ?
	                 AND a.level = ?
	                 AND a.is_outdoor = ?
	                 AND t.id NOT IN (
	                     SELECT table_id FROM reservations
	                     WHERE date = ? AND time = ? AND status IN ('pending', 'accepted')
	                 )
	               ORDER BY t.capacity, t.name`
	outdoor := 0
	if q.Outdoor {
		outdoor = 1
	}
	rows, err := r.db.QueryContext(ctx, query, q.Guests, q.Level, outdoor, q.Date, q.Time)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTablesWithArea(rows)
}

func scanTablesWithArea(rows *sql.Rows) ([]TableWithArea, error) {
	tables := make([]TableWithArea, 0)
	for rows.Next() {
		var t TableWithArea
		var outdoor int
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &t.AreaID, &t.AreaName, &t.Level, &outdoor); err != nil {
			return nil, err
		}
		t.IsOutdoor = outdoor != 0
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}
