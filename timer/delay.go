package timer

import (
	"context"
	"time"
)

// Delay completes at a fixed instant.
type Delay struct {
	reg *Registration
}

// Delay returns a Delay completing d from now.
func (d *Driver) Delay(dur time.Duration) *Delay {
	return d.DelayUntil(d.Now().Add(dur))
}

// DelayUntil returns a Delay completing at deadline.
func (d *Driver) DelayUntil(deadline time.Time) *Delay {
	return &Delay{reg: d.Register(deadline)}
}

// C is closed once the delay elapsed.
func (d *Delay) C() <-chan struct{} {
	return d.reg.Elapsed()
}

// Wait blocks until the delay elapses or ctx is done.
func (d *Delay) Wait(ctx context.Context) error {
	select {
	case <-d.reg.Elapsed():
		return d.reg.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns ErrShutdown when the delay completed because the driver shut
// down.
func (d *Delay) Err() error {
	return d.reg.Err()
}

func (d *Delay) Deadline() time.Time {
	return d.reg.Deadline()
}

func (d *Delay) IsElapsed() bool {
	return d.reg.IsElapsed()
}

func (d *Delay) Reset(deadline time.Time) {
	d.reg.Reset(deadline)
}

// Stop cancels the delay.
func (d *Delay) Stop() {
	d.reg.Cancel()
}
