package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// dbTimeLayout is how created_at and expires_at are stored.  All
// timestamps are written and compared in UTC.
const dbTimeLayout = "2006-01-02 15:04:05"

// ReservationRepo owns every write to the reservations table.  No other
// component touches reservation rows directly; handlers and the sweeper go
// through the transactional operations defined here.
type ReservationRepo struct {
	db    *sql.DB
	locks *slotLock
}

// NewReservationRepo returns a new ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db, locks: newSlotLock()}
}

// ReservationRecord mirrors the schema of the reservations table.  It is
// used by the repository when constructing or scanning rows; presentation
// code should prefer ReservationDetail.
type ReservationRecord struct {
	ID        uint64
	TableID   uint64
	Name      string
	Phone     *string
	Date      string
	Time      string
	Guests    int
	Status    string
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Create admits a new reservation in pending status.  The conflict check
// and the insert run inside one transaction, serialized per slot key, so
// that of any number of concurrent attempts for the same (table, date,
// time) exactly one succeeds; the rest receive ErrSlotTaken and write
// nothing.  The caller must have validated the request against booking
// policy first and must populate CreatedAt and ExpiresAt.  On success the
// generated id and pending status are set on the record.
func (r *ReservationRepo) Create(ctx context.Context, rec *ReservationRecord) error {
	release := r.locks.acquire(slotKey(rec.TableID, rec.Date, rec.Time))
	defer release()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Referential check first so callers can distinguish a bad table id
	// from an occupied slot.
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM tables WHERE id = ?`, rec.TableID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTableNotFound
	}
	if err != nil {
		return err
	}

	var held int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE table_id = ? AND date = ? AND time = ? AND status IN ('pending', 'accepted')`,
		rec.TableID, rec.Date, rec.Time,
	).Scan(&held)
	if err != nil {
		return err
	}
	if held > 0 {
		return ErrSlotTaken
	}

	var expires interface{}
	if rec.ExpiresAt != nil {
		expires = rec.ExpiresAt.UTC().Format(dbTimeLayout)
	}
	rec.Status = model.StatusPending
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (table_id, name, phone, date, time, guests, status, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TableID, rec.Name, rec.Phone, rec.Date, rec.Time, rec.Guests,
		rec.Status, rec.CreatedAt.UTC().Format(dbTimeLayout), expires,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Accept transitions a reservation from pending to accepted.  Any other
// current status is rejected: ErrReservationNotFound when no row exists,
// *WrongStatusError otherwise.
func (r *ReservationRepo) Accept(ctx context.Context, id uint64) (*ReservationRecord, error) {
	return r.transition(ctx, id, []string{model.StatusPending}, model.StatusAccepted)
}

// Decline transitions a reservation from pending or accepted to declined.
func (r *ReservationRepo) Decline(ctx context.Context, id uint64) (*ReservationRecord, error) {
	return r.transition(ctx, id, model.HoldStatuses, model.StatusDeclined)
}

// transition moves a reservation into the target status provided its
// current status is in the allowed set.  The status guard is repeated in
// the UPDATE's WHERE clause so that a concurrent state change (for example
// the sweeper expiring the row between read and write) loses cleanly: the
// update matches nothing and the caller sees the status that won.
func (r *ReservationRepo) transition(ctx context.Context, id uint64, allowed []string, to string) (*ReservationRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT id, table_id, name, phone, date, time, guests, status, created_at, expires_at
		 FROM reservations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	if !statusIn(rec.Status, allowed) {
		return nil, &WrongStatusError{Status: rec.Status}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ? AND status = ?`,
		to, id, rec.Status,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// lost a race against another transition
		return nil, &WrongStatusError{Status: rec.Status}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	rec.Status = to
	return rec, nil
}

// Delete removes a reservation outright regardless of status.  This backs
// operator cancellation, which is terminal and irreversible.  It returns
// ErrReservationNotFound when no row matches.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ExpireDue flips every hold whose expiry is strictly in the past into
// expired and returns the affected records.  Rows with a null expiry are
// never touched.  When includeAccepted is false only pending holds are
// swept.  The operation is idempotent: a second pass with no new arrivals
// matches nothing.
func (r *ReservationRepo) ExpireDue(ctx context.Context, now time.Time, includeAccepted bool) ([]ReservationRecord, error) {
	statuses := []string{model.StatusPending}
	if includeAccepted {
		statuses = model.HoldStatuses
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	cutoff := now.UTC().Format(dbTimeLayout)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	args := make([]interface{}, 0, len(statuses)+1)
	for _, s := range statuses {
		args = append(args, s)
	}
	args = append(args, cutoff)
	rows, err := tx.QueryContext(ctx,
		`SELECT id, table_id, name, phone, date, time, guests, status, created_at, expires_at
		 FROM reservations
		 WHERE status IN (`+placeholders+`) AND expires_at IS NOT NULL AND expires_at < ?
		 ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	due := make([]ReservationRecord, 0)
	for rows.Next() {
		rec, err := scanReservation(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		due = append(due, *rec)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return due, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?
		 WHERE status IN (`+placeholders+`) AND expires_at IS NOT NULL AND expires_at < ?`,
		append([]interface{}{model.StatusExpired}, args...)...,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	for i := range due {
		due[i].Status = model.StatusExpired
	}
	return due, nil
}

// ReservationDetail is a reservation joined with its table and area
// display names, as returned by the listing endpoint.
type ReservationDetail struct {
	ID        uint64  `json:"id"`
	TableID   uint64  `json:"table_id"`
	TableName string  `json:"table_name"`
	AreaName  string  `json:"area_name"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Guests    int     `json:"guests"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	ExpiresAt *string `json:"expires_at"`
}

// ListAll returns every reservation with table and area names, ordered by
// (date, time) ascending.  This is a read-only projection; it never
// filters by status.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.table_id, t.name, a.name,
	                  r.name, r.phone, r.date, r.time, r.guests, r.status,
	                  r.created_at, r.expires_at
	           FROM reservations r
	           JOIN tables t ON t.id = r.table_id
	           JOIN areas a ON a.id = t.area_id
	           ORDER BY r.date, r.time, r.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var phone, expires, created sql.NullString
		if err := rows.Scan(
			&d.ID, &d.TableID, &d.TableName, &d.AreaName,
			&d.Name, &phone, &d.Date, &d.Time, &d.Guests, &d.Status,
			&created, &expires,
		); err != nil {
			return nil, err
		}
		if phone.Valid {
			p := phone.String
			d.Phone = &p
		}
		// Re-emit DB timestamps as RFC3339 in UTC for presentation.
		if created.Valid {
			if t, err2 := time.Parse(dbTimeLayout, created.String); err2 == nil {
				d.CreatedAt = t.UTC().Format(time.RFC3339)
			}
		}
		if expires.Valid && strings.TrimSpace(expires.String) != "" {
			if t, err2 := time.Parse(dbTimeLayout, expires.String); err2 == nil {
				iso := t.UTC().Format(time.RFC3339)
				d.ExpiresAt = &iso
			}
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByID returns a single reservation row, mainly for tests and event
// enrichment.  It returns ErrReservationNotFound when no row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*ReservationRecord, error) {
	rec, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT id, table_id, name, phone, date, time, guests, status, created_at, expires_at
		 FROM reservations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return rec, err
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*ReservationRecord, error) {
	var rec ReservationRecord
	var phone, created, expires sql.NullString
	if err := row.Scan(
		&rec.ID, &rec.TableID, &rec.Name, &phone, &rec.Date, &rec.Time,
		&rec.Guests, &rec.Status, &created, &expires,
	); err != nil {
		return nil, err
	}
	if phone.Valid {
		p := phone.String
		rec.Phone = &p
	}
	if created.Valid {
		if t, err := time.Parse(dbTimeLayout, created.String); err == nil {
			rec.CreatedAt = t.UTC()
		}
	}
	if expires.Valid && strings.TrimSpace(expires.String) != "" {
		if t, err := time.Parse(dbTimeLayout, expires.String); err == nil {
			u := t.UTC()
			rec.ExpiresAt = &u
		}
	}
	return &rec, nil
}

func statusIn(status string, set []string) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
