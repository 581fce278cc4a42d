package timer

import "time"

// Registration is the waiter's handle on an entry in the wheel. Cancel plays
// the part of dropping the handle: it removes the entry and may be called any
// number of times.
type Registration struct {
	driver *Driver
	entry  *Entry
}

func (r *Registration) Deadline() time.Time {
	r.driver.mu.Lock()
	defer r.driver.mu.Unlock()
	return r.entry.deadline
}

// Reset moves the entry to a new deadline. Removal and reinsertion happen
// under the driver lock so the entry can neither fire twice nor be missed.
func (r *Registration) Reset(deadline time.Time) {
	r.driver.mu.Lock()
	r.driver.reset(r.entry, deadline)
	r.driver.mu.Unlock()
}

func (r *Registration) IsElapsed() bool {
	r.driver.mu.Lock()
	defer r.driver.mu.Unlock()
	return r.entry.state == fired
}

// PollElapsed reports without blocking whether the entry fired, and the
// error it fired with.
func (r *Registration) PollElapsed() (bool, error) {
	r.driver.mu.Lock()
	defer r.driver.mu.Unlock()
	if r.entry.state != fired {
		return false, nil
	}
	return true, r.entry.err
}

// Elapsed returns a channel closed when the entry fires. A cancelled entry
// never fires. The channel changes on Reset.
func (r *Registration) Elapsed() <-chan struct{} {
	r.driver.mu.Lock()
	defer r.driver.mu.Unlock()
	return r.entry.done
}

// Err returns ErrShutdown when the entry fired because the driver went away.
func (r *Registration) Err() error {
	r.driver.mu.Lock()
	defer r.driver.mu.Unlock()
	return r.entry.err
}

func (r *Registration) Cancel() {
	r.driver.mu.Lock()
	r.driver.cancel(r.entry)
	r.driver.mu.Unlock()
}
