// Package booking contains the pure business rules governing reservation
// admission: party size bounds, the closing-hour cutoff and the minimum
// lead time.  The package never touches the database; callers run these
// checks before going anywhere near storage.
package booking

import (
	"fmt"
	"time"
)

// Layouts for the date and time-of-day fields as they appear in requests
// and in the reservations table.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// RuleViolation reports that a booking request breaks a business rule.
// The reason is human readable and safe to return to the caller.
type RuleViolation struct {
	Reason string
}

func (v *RuleViolation) Error() string { return v.Reason }

// Policy bundles the configurable admission rules and the hold window.
// The zero value is not usable; construct with NewPolicy so defaults are
// applied consistently.
type Policy struct {
	MaxPartySize   int           // upper bound on guests per booking
	ClosingHour    int           // bookings must start strictly before this hour
	MinLead        time.Duration // minimum gap between "now" and the booking instant
	HoldTTL        time.Duration // how long a new reservation holds its slot
	ExpireAccepted bool          // whether accepted holds are also swept
	RequirePhone   bool          // whether a phone number is mandatory
	Clock          Clock         // injectable time source
}

// NewPolicy returns the reference policy: parties of at most 20, last
// seating before 21:00, 24 hours of lead time and a 30 minute hold window.
func NewPolicy(clock Clock) *Policy {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Policy{
		MaxPartySize:   20,
		ClosingHour:    21,
		MinLead:        24 * time.Hour,
		HoldTTL:        30 * time.Minute,
		ExpireAccepted: true,
		RequirePhone:   false,
		Clock:          clock,
	}
}

// Validate applies the admission rules in order and returns the first
// failure as a *RuleViolation.  On success it returns the combined booking
// instant in UTC.  The rules are:
//
//  1. guests must be between 1 and MaxPartySize;
//  2. date and time must parse into a valid instant;
//  3. the time of day must be strictly before ClosingHour;
//  4. the instant must be at least MinLead after the clock's now.
func (p *Policy) Validate(date, timeOfDay string, guests int) (time.Time, error) {
	if guests < 1 || guests > p.MaxPartySize {
		return time.Time{}, &RuleViolation{
			Reason: fmt.Sprintf("guests must be between 1 and %d", p.MaxPartySize),
		}
	}
	at, err := ParseSlot(date, timeOfDay)
	if err != nil {
		return time.Time{}, &RuleViolation{Reason: "invalid date or time"}
	}
	if at.Hour() >= p.ClosingHour {
		// starting at the closing hour is already too late
		return time.Time{}, &RuleViolation{
			Reason: fmt.Sprintf("bookings must start before %02d:00", p.ClosingHour),
		}
	}
	if at.Sub(p.Clock.Now()) < p.MinLead {
		return time.Time{}, &RuleViolation{
			Reason: fmt.Sprintf("bookings require at least %d hours notice", int(p.MinLead.Hours())),
		}
	}
	return at, nil
}

// ExpiryFor computes the hold expiry for a reservation created at the
// given instant.
func (p *Policy) ExpiryFor(createdAt time.Time) time.Time {
	return createdAt.Add(p.HoldTTL)
}

// ParseSlot combines a date and a time-of-day string into a single UTC
// instant.  Both components are validated strictly against their layouts.
func ParseSlot(date, timeOfDay string) (time.Time, error) {
	return time.Parse(DateLayout+" "+TimeLayout, date+" "+timeOfDay)
}
