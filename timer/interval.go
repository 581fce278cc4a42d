package timer

import (
	"context"
	"time"
)

// Interval ticks at a fixed period. The next deadline is derived from the
// deadline that just fired, not from the time the tick was observed, so slow
// consumers do not accumulate drift.
type Interval struct {
	delay  *Delay
	period time.Duration
}

// Interval returns an Interval whose first tick completes immediately.
func (d *Driver) Interval(period time.Duration) *Interval {
	return d.IntervalAt(d.Now(), period)
}

// IntervalAt returns an Interval whose first tick completes at start.
// It panics if period is not positive.
func (d *Driver) IntervalAt(start time.Time, period time.Duration) *Interval {
	if period <= 0 {
		panic("timer: interval period must be non-zero")
	}

	return &Interval{
		delay:  d.DelayUntil(start),
		period: period,
	}
}

// Tick waits for the next tick and returns its scheduled instant.
func (i *Interval) Tick(ctx context.Context) (time.Time, error) {
	if err := i.delay.Wait(ctx); err != nil {
		return time.Time{}, err
	}

	at := i.delay.Deadline()
	i.delay.Reset(at.Add(i.period))

	return at, nil
}

func (i *Interval) Period() time.Duration {
	return i.period
}

// Stop cancels the interval.
func (i *Interval) Stop() {
	i.delay.Stop()
}
