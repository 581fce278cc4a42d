package timer

import (
	"sync"
	"time"
)

// Driver owns a timing wheel and fires the entries registered on it.
//
// Time advances through Turn. Start runs a goroutine that parks until the next
// expiration (or an earlier registration) and turns the wheel; tests drive
// Turn by hand with a MockClock instead.
type Driver struct {
	opts   Options
	origin time.Time

	mu       sync.Mutex
	wheel    *wheel
	pending  int
	shutdown bool
	started  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewDriver(opts ...Option) *Driver {
	options := newOptions(opts...)

	return &Driver{
		opts:   options,
		origin: options.Clock.Now(),
		wheel:  newWheel(),
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (d *Driver) Options() Options {
	return d.opts
}

// Now reads the driver's clock.
func (d *Driver) Now() time.Time {
	return d.opts.Clock.Now()
}

// Register schedules a new entry for deadline.
func (d *Driver) Register(deadline time.Time) *Registration {
	e := newEntry(deadline)

	d.mu.Lock()
	d.schedule(e)
	d.mu.Unlock()

	return &Registration{driver: d, entry: e}
}

// Len returns the number of entries waiting to fire.
func (d *Driver) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Turn fires every entry whose deadline is at or before now and returns how
// many fired.
func (d *Driver) Turn(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.shutdown {
		return 0
	}

	entries := d.wheel.poll(d.tickFloor(now))
	for _, e := range entries {
		d.pending--
		d.fire(e, nil)
	}

	return len(entries)
}

// Start runs the driver loop. It is a no-op after the first call.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.shutdown {
		return
	}
	d.started = true

	go d.run()
}

// Shutdown stops the driver loop and fires every pending entry with
// ErrShutdown. Later registrations fire immediately with ErrShutdown.
func (d *Driver) Shutdown() {
	d.mu.Lock()
	if d.shutdown {
		d.mu.Unlock()
		return
	}
	d.shutdown = true
	started := d.started

	for _, e := range d.wheel.drain() {
		d.fire(e, ErrShutdown)
	}
	d.pending = 0
	d.mu.Unlock()

	close(d.stop)
	if started {
		<-d.done
	}
}

func (d *Driver) run() {
	defer close(d.done)

	t := time.NewTimer(time.Hour)
	defer t.Stop()

	for {
		wait := time.Hour

		d.mu.Lock()
		if exp, ok := d.wheel.nextExpiration(); ok {
			wait = d.instant(exp.deadline).Sub(d.Now())
		}
		d.mu.Unlock()

		if wait < 0 {
			wait = 0
		}
		t.Reset(wait)

		select {
		case <-t.C:
		case <-d.wake:
		case <-d.stop:
			return
		}

		d.Turn(d.Now())
	}
}

// schedule inserts e into the wheel or fires it straight away when its
// deadline has passed. Called with d.mu held.
func (d *Driver) schedule(e *Entry) {
	if d.shutdown {
		d.fire(e, ErrShutdown)
		return
	}

	e.state = scheduled
	e.err = nil

	if !e.deadline.After(d.Now()) {
		d.fire(e, nil)
		return
	}

	e.when = d.tickCeil(e.deadline)
	if !d.wheel.insert(e) {
		d.fire(e, nil)
		return
	}
	d.pending++

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// cancel removes a scheduled entry. Called with d.mu held.
func (d *Driver) cancel(e *Entry) {
	if e.state != scheduled {
		return
	}
	d.wheel.remove(e)
	d.pending--
	e.state = cancelled
}

// reset reschedules e for deadline. Called with d.mu held.
func (d *Driver) reset(e *Entry, deadline time.Time) {
	switch e.state {
	case scheduled:
		d.wheel.remove(e)
		d.pending--
	case fired:
		e.done = make(chan struct{})
	}
	e.deadline = deadline
	d.schedule(e)
}

func (d *Driver) fire(e *Entry, err error) {
	e.state = fired
	e.err = err
	close(e.done)
}

// tickCeil rounds t up to a tick so entries never fire early.
func (d *Driver) tickCeil(t time.Time) uint64 {
	if !t.After(d.origin) {
		return 0
	}
	res := d.opts.Resolution
	return uint64((t.Sub(d.origin) + res - 1) / res)
}

func (d *Driver) tickFloor(t time.Time) uint64 {
	if !t.After(d.origin) {
		return 0
	}
	return uint64(t.Sub(d.origin) / d.opts.Resolution)
}

func (d *Driver) instant(tick uint64) time.Time {
	return d.origin.Add(time.Duration(tick) * d.opts.Resolution)
}
