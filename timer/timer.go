// Package timer schedules deadlines on a hierarchical timing wheel.
//
// A Driver owns the wheel. Registrations are handles shared between the wheel,
// which fires them, and the waiter, which polls, resets or cancels them.
// Delay and Interval are built on top of a single registration.
package timer

import (
	"errors"
	"sync"
)

// ErrShutdown is reported by registrations whose driver has been shut down.
var ErrShutdown = errors.New("timer: driver shut down")

var (
	defaultOnce   sync.Once
	defaultDriver *Driver
)

// Default returns the process wide driver, starting it on first use.
func Default() *Driver {
	defaultOnce.Do(func() {
		defaultDriver = NewDriver()
		defaultDriver.Start()
	})
	return defaultDriver
}
