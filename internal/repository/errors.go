// Package repository provides data access to areas, tables and
// reservations over database/sql.  The sentinel errors defined here let
// handlers distinguish caller mistakes (unknown table, occupied slot,
// illegal transition) from genuine store failures without inspecting
// driver-specific error values.
package repository

import (
	"errors"
	"fmt"
)

// ErrTableNotFound is returned when a reservation references a table id
// that does not exist.  Handlers should translate this into HTTP 404.
var ErrTableNotFound = errors.New("table not found")

// ErrReservationNotFound is returned when an operation targets a
// reservation id with no matching row.  Handlers should translate this
// into HTTP 404 so callers can tell "never existed" from "already handled".
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSlotTaken is returned when an admission attempt finds an active
// reservation already holding the same (table, date, time) slot.  No row
// is written.  Handlers should translate this into HTTP 409.
var ErrSlotTaken = errors.New("table already reserved for this slot")

// WrongStatusError is returned when a status transition is attempted on a
// reservation that exists but is not in an eligible state, e.g. accepting
// a declined reservation.  Status carries the reservation's actual status
// so the caller can report why the transition was rejected.
type WrongStatusError struct {
	Status string
}

func (e *WrongStatusError) Error() string {
	return fmt.Sprintf("reservation is %s", e.Status)
}
