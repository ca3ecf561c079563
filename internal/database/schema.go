package database

import (
	"context"
	"database/sql"
	"fmt"
)

// autoPK returns the primary-key column clause for the driver.  SQLite's
// INTEGER PRIMARY KEY is implicitly auto-incrementing; MySQL needs the
// keyword spelled out.
func autoPK(driver string) string {
	if driver == "mysql" {
		return "BIGINT PRIMARY KEY AUTO_INCREMENT"
	}
	return "INTEGER PRIMARY KEY"
}

// InitSchema creates the three tables in dependency order: areas first,
// then tables referencing areas, then reservations referencing tables.
// It is idempotent and must complete before the process starts serving
// requests.
func InitSchema(ctx context.Context, db *sql.DB, driver string) error {
	// MySQL takes the slot index inline; SQLite only supports IF NOT
	// EXISTS on a separate CREATE INDEX.
	slotIndex := `,
			INDEX idx_reservations_slot (table_id, date, time)`
	if driver != "mysql" {
		slotIndex = ""
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS areas (
			id %s,
			name VARCHAR(64) NOT NULL,
			level INTEGER NOT NULL,
			is_outdoor INTEGER NOT NULL
		)`, autoPK(driver)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tables (
			id %s,
			name VARCHAR(64) NOT NULL,
			capacity INTEGER NOT NULL,
			area_id BIGINT NOT NULL,
			FOREIGN KEY (area_id) REFERENCES areas(id)
		)`, autoPK(driver)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS reservations (
			id %s,
			table_id BIGINT NOT NULL,
			name VARCHAR(128) NOT NULL,
			phone VARCHAR(32),
			date VARCHAR(10) NOT NULL,
			time VARCHAR(5) NOT NULL,
			guests INTEGER NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'pending',
			created_at VARCHAR(19) NOT NULL,
			expires_at VARCHAR(19),
			FOREIGN KEY (table_id) REFERENCES tables(id)%s
		)`, autoPK(driver), slotIndex),
	}
	if driver != "mysql" {
		stmts = append(stmts,
			`CREATE INDEX IF NOT EXISTS idx_reservations_slot
				ON reservations (table_id, date, time)`)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Seed inserts the reference areas and tables when the store is empty.
// Areas are seeded before the tables that reference them; both steps are
// skipped entirely when rows already exist, so restarts never duplicate
// reference data.
func Seed(ctx context.Context, db *sql.DB) error {
	var areaCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM areas`).Scan(&areaCount); err != nil {
		return fmt.Errorf("seed areas count: %w", err)
	}
	areaIDs := map[string]int64{}
	if areaCount == 0 {
		for _, a := range []struct {
			name    string
			level   int
			outdoor int
		}{
			{"Downstairs", 1, 0},
			{"Garden", 1, 1},
			{"Upstairs", 2, 0},
			{"Terrace", 2, 1},
		} {
			res, err := db.ExecContext(ctx,
				`INSERT INTO areas (name, level, is_outdoor) VALUES (?, ?, ?)`,
				a.name, a.level, a.outdoor)
			if err != nil {
				return fmt.Errorf("seed area %s: %w", a.name, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			areaIDs[a.name] = id
		}
	} else {
		rows, err := db.QueryContext(ctx, `SELECT id, name FROM areas`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			var name string
			if err := rows.Scan(&id, &name); err != nil {
				return err
			}
			areaIDs[name] = id
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}

	var tableCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tables`).Scan(&tableCount); err != nil {
		return fmt.Errorf("seed tables count: %w", err)
	}
	if tableCount > 0 {
		return nil
	}
	for _, t := range []struct {
		name     string
		capacity int
		area     string
	}{
		{"D1", 4, "Downstairs"},
		{"D2", 2, "Downstairs"},
		{"G1", 4, "Garden"},
		{"U1", 6, "Upstairs"},
		{"T1", 4, "Terrace"},
	} {
		areaID, ok := areaIDs[t.area]
		if !ok {
			return fmt.Errorf("seed table %s: unknown area %s", t.name, t.area)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO tables (name, capacity, area_id) VALUES (?, ?, ?)`,
			t.name, t.capacity, areaID); err != nil {
			return fmt.Errorf("seed table %s: %w", t.name, err)
		}
	}
	return nil
}
