package model

import "time"

// Reservation statuses.  A reservation enters the system as pending and
// moves through the state machine below; it never re-enters pending.
//
//	pending  -> accepted | declined | expired
//	accepted -> declined | expired
//
// Cancellation is not a status: it deletes the row outright.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusExpired  = "expired"
)

// HoldStatuses are the statuses that occupy a slot.  Only reservations in
// one of these states block other bookings for the same (table, date, time)
// and are subject to the expiration sweep.
var HoldStatuses = []string{StatusPending, StatusAccepted}

// Reservation records a booking attempt for a single table at a single
// date/time slot.
//
// Fields:
//  ID        – primary key identifier.
//  TableID   – table being booked.
//  Name      – requester name; always non-empty.
//  Phone     – requester phone (nullable).
//  Date      – calendar date of the booking ("2006-01-02").
//  Time      – time of day of the booking ("15:04").
//  Guests    – party size; 1..max policy bound.
//  Status    – current state machine status.
//  CreatedAt – creation timestamp, immutable.
//  ExpiresAt – when the hold lapses (nullable); rows with a nil expiry are
//              never touched by the sweeper.
type Reservation struct {
	ID        uint64     `json:"id"`         // reservations.id
	TableID   uint64     `json:"table_id"`   // reservations.table_id
	Name      string     `json:"name"`       // reservations.name
	Phone     *string    `json:"phone"`      // reservations.phone (nullable)
	Date      string     `json:"date"`       // reservations.date
	Time      string     `json:"time"`       // reservations.time
	Guests    int        `json:"guests"`     // reservations.guests
	Status    string     `json:"status"`     // reservations.status
	CreatedAt time.Time  `json:"created_at"` // reservations.created_at
	ExpiresAt *time.Time `json:"expires_at"` // reservations.expires_at (nullable)
}
