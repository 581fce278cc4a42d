package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDriver() (*Driver, *MockClock) {
	clock := NewMockClock(time.Unix(1700000000, 0))
	return NewDriver(WithClock(clock)), clock
}

func TestRegistrationFires(t *testing.T) {
	d, clock := newMockDriver()

	r := d.Register(clock.Now().Add(10 * time.Millisecond))
	assert.False(t, r.IsElapsed())
	assert.Equal(t, 1, d.Len())

	assert.Equal(t, 0, d.Turn(clock.Add(9*time.Millisecond)))
	assert.False(t, r.IsElapsed())

	assert.Equal(t, 1, d.Turn(clock.Add(time.Millisecond)))
	assert.True(t, r.IsElapsed())

	ok, err := r.PollElapsed()
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 0, d.Len())

	select {
	case <-r.Elapsed():
	default:
		t.Fatal("elapsed channel not closed")
	}
}

func TestRegistrationPastDeadline(t *testing.T) {
	d, clock := newMockDriver()

	r := d.Register(clock.Now().Add(-time.Second))
	assert.True(t, r.IsElapsed())
	assert.Equal(t, 0, d.Len())
}

func TestRegistrationReset(t *testing.T) {
	d, clock := newMockDriver()
	start := clock.Now()

	r := d.Register(start.Add(10 * time.Millisecond))
	r.Reset(start.Add(50 * time.Millisecond))
	assert.Equal(t, start.Add(50*time.Millisecond), r.Deadline())

	d.Turn(clock.Add(20 * time.Millisecond))
	assert.False(t, r.IsElapsed())

	d.Turn(clock.Add(30 * time.Millisecond))
	assert.True(t, r.IsElapsed())

	// resetting a fired entry schedules it again
	r.Reset(clock.Now().Add(5 * time.Millisecond))
	assert.False(t, r.IsElapsed())
	assert.Equal(t, 1, d.Len())

	d.Turn(clock.Add(5 * time.Millisecond))
	assert.True(t, r.IsElapsed())
}

func TestRegistrationCancel(t *testing.T) {
	d, clock := newMockDriver()

	r := d.Register(clock.Now().Add(time.Millisecond))
	r.Cancel()
	r.Cancel()
	assert.Equal(t, 0, d.Len())

	assert.Equal(t, 0, d.Turn(clock.Add(time.Second)))
	assert.False(t, r.IsElapsed())
}

func TestDriverShutdown(t *testing.T) {
	d, clock := newMockDriver()

	r := d.Register(clock.Now().Add(time.Hour))
	d.Shutdown()
	d.Shutdown()

	ok, err := r.PollElapsed()
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrShutdown)

	late := d.Register(clock.Now().Add(time.Hour))
	assert.ErrorIs(t, late.Err(), ErrShutdown)
	assert.Equal(t, 0, d.Turn(clock.Add(2*time.Hour)))
}

func TestDriverRun(t *testing.T) {
	d := NewDriver()
	d.Start()
	defer d.Shutdown()

	delay := d.Delay(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	require.NoError(t, delay.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDriverRunWakesForEarlierEntry(t *testing.T) {
	d := NewDriver()
	d.Start()
	defer d.Shutdown()

	long := d.Delay(time.Hour)
	defer long.Stop()

	short := d.Delay(10 * time.Millisecond)

	select {
	case <-short.C():
	case <-time.After(time.Second):
		t.Fatal("short delay never fired")
	}
	assert.False(t, long.IsElapsed())
}

func TestDelayWaitContext(t *testing.T) {
	d, _ := newMockDriver()

	delay := d.Delay(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, delay.Wait(ctx), context.Canceled)
	delay.Stop()
	assert.Equal(t, 0, d.Len())
}

func TestDelayReset(t *testing.T) {
	d, clock := newMockDriver()

	delay := d.Delay(5 * time.Millisecond)
	d.Turn(clock.Add(5 * time.Millisecond))
	require.True(t, delay.IsElapsed())
	require.NoError(t, delay.Wait(context.Background()))

	delay.Reset(clock.Now().Add(20 * time.Millisecond))
	assert.False(t, delay.IsElapsed())
	assert.Equal(t, clock.Now().Add(20*time.Millisecond), delay.Deadline())

	d.Turn(clock.Add(19 * time.Millisecond))
	assert.False(t, delay.IsElapsed())

	d.Turn(clock.Add(time.Millisecond))
	select {
	case <-delay.C():
	default:
		t.Fatal("delay not elapsed after reset")
	}
}
