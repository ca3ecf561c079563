// Package sweeper runs the periodic expiration pass that reclaims stale
// holds: reservations still pending (or accepted, when policy says
// accepted holds lapse too) whose expiry timestamp has passed are flipped
// to expired in one bulk update.
package sweeper

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/booking"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// Sweeper drives the expiration pass on a fixed interval.  It is owned by
// the process lifecycle: started after initialization completes and
// stopped through context cancellation on shutdown.
type Sweeper struct {
	Repo           *repository.ReservationRepo
	Interval       time.Duration
	Clock          booking.Clock
	ExpireAccepted bool
	Publish        queue.PublishFunc

	mu sync.Mutex // serializes passes; a slow pass is skipped, not stacked
}

// New returns a sweeper with the reference interval of one minute when
// interval is not positive.
func New(repo *repository.ReservationRepo, interval time.Duration, clock booking.Clock, expireAccepted bool, publish queue.PublishFunc) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if clock == nil {
		clock = booking.SystemClock{}
	}
	return &Sweeper{
		Repo:           repo,
		Interval:       interval,
		Clock:          clock,
		ExpireAccepted: expireAccepted,
		Publish:        publish,
	}
}

// Run ticks until the context is cancelled, sweeping once immediately and
// then on every interval.  Store failures are logged and the loop keeps
// going; a failed pass simply retries on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one expiration pass and returns how many holds it
// expired.  Passes are mutually exclusive: when a previous pass is still
// running, this call returns immediately instead of overlapping it.  The
// pass is idempotent, so a skipped tick loses nothing.
func (s *Sweeper) Sweep(ctx context.Context) int {
	if !s.mu.TryLock() {
		return 0
	}
	defer s.mu.Unlock()

	now := s.Clock.Now()
	expired, err := s.Repo.ExpireDue(ctx, now, s.ExpireAccepted)
	if err != nil {
		log.Printf("sweeper: expiration pass failed: %v", err)
		return 0
	}
	if len(expired) == 0 {
		return 0
	}
	log.Printf("sweeper: expired %d stale hold(s)", len(expired))
	if s.Publish != nil {
		for _, rec := range expired {
			ev := queue.ReservationEvent{
				Action:        queue.ActionExpired,
				ReservationID: rec.ID,
				TableID:       rec.TableID,
				GuestName:     rec.Name,
				Phone:         rec.Phone,
				Date:          rec.Date,
				Time:          rec.Time,
				Guests:        rec.Guests,
				Status:        rec.Status,
				OccurredAt:    now.Format(time.RFC3339),
			}
			_ = s.Publish(ctx, ev)
		}
	}
	return len(expired)
}
