// Package queue defines the lifecycle event payload published to the
// message broker and the background consumer that records those events.
package queue

import "context"

// EventQueueName is the durable queue carrying reservation lifecycle events.
const EventQueueName = "reservation.events"

// Actions recorded on the reservation.events queue.
const (
	ActionCreated   = "created"
	ActionAccepted  = "accepted"
	ActionDeclined  = "declined"
	ActionCancelled = "cancelled"
	ActionExpired   = "expired"
)

// PublishFunc emits one event to the broker.  Components that publish
// take this as a dependency so tests can capture events or disable
// publishing by passing nil.
type PublishFunc func(ctx context.Context, ev ReservationEvent) error

// ReservationEvent is published after every successful state change.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type ReservationEvent struct {
	Action        string  `json:"action"`
	ReservationID uint64  `json:"reservation_id"`
	TableID       uint64  `json:"table_id"`
	GuestName     string  `json:"guest_name"`
	Phone         *string `json:"phone,omitempty"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Guests        int     `json:"guests"`
	Status        string  `json:"status"`
	OccurredAt    string  `json:"occurred_at"`
}
