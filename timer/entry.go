package timer

import "time"

type state int

const (
	scheduled state = iota
	fired
	cancelled
)

func (s state) String() string {
	switch s {
	case scheduled:
		return "scheduled"
	case fired:
		return "fired"
	case cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Entry is a deadline tracked by the wheel. Every field is guarded by the
// owning driver's mutex.
type Entry struct {
	deadline time.Time
	when     uint64
	state    state
	err      error
	done     chan struct{}

	// position in the wheel while slotted
	level   int
	slot    int
	slotted bool
}

func newEntry(deadline time.Time) *Entry {
	return &Entry{
		deadline: deadline,
		done:     make(chan struct{}),
	}
}
