package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// AreaRepo provides read access to the areas table.  Areas are immutable
// reference data, so the repository exposes no mutation beyond what the
// schema seeder performs at startup.
type AreaRepo struct {
	db *sql.DB
}

// NewAreaRepo returns a new AreaRepo bound to the given database.
func NewAreaRepo(db *sql.DB) *AreaRepo { return &AreaRepo{db: db} }

// List returns every area ordered by id.
func (r *AreaRepo) List(ctx context.Context) ([]model.Area, error) {
	const q = `SELECT id, name, level, is_outdoor FROM areas ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	areas := make([]model.Area, 0)
	for rows.Next() {
		var a model.Area
		var outdoor int
		if err := rows.Scan(&a.ID, &a.Name, &a.Level, &outdoor); err != nil {
			return nil, err
		}
		a.IsOutdoor = outdoor != 0
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return areas, nil
}
