package repository

import (
	"fmt"
	"sync"
)

// slotLock serializes admission attempts per (table, date, time) slot.
// The database transaction alone is not enough on every backend: with the
// default isolation level a plain read inside the transaction does not
// block a concurrent reader, so two near-simultaneous creates could both
// pass the conflict check and both insert.  Scoping a mutex to the slot
// key makes the check-then-insert indivisible without holding any lock
// across unrelated slots.
type slotLock struct {
	mu    sync.Mutex
	slots map[string]*slotEntry
}

type slotEntry struct {
	mu   sync.Mutex
	refs int
}

func newSlotLock() *slotLock {
	return &slotLock{slots: make(map[string]*slotEntry)}
}

func slotKey(tableID uint64, date, timeOfDay string) string {
	return fmt.Sprintf("%d|%s|%s", tableID, date, timeOfDay)
}

// acquire blocks until the slot key is exclusively held and returns the
// release function.  Entries are reference counted so the map does not
// grow with every slot ever booked.
func (l *slotLock) acquire(key string) func() {
	l.mu.Lock()
	e, ok := l.slots[key]
	if !ok {
		e = &slotEntry{}
		l.slots[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.slots, key)
		}
		l.mu.Unlock()
	}
}
