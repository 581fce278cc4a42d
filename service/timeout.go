package service

import (
	"context"
	"errors"
	"time"

	"github.com/micro/go-connect/timer"
)

// ErrTimeout is returned by a Timeout service whose deadline elapsed before
// the inner call completed.
var ErrTimeout = errors.New("service: timed out")

// Error carries a failure of the service wrapped by Timeout, keeping it
// apart from the timeout itself.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type TimeoutOptions struct {
	// Driver hosts the deadlines. Defaults to timer.Default().
	Driver *timer.Driver
	// Discard receives successful responses of abandoned calls.
	Discard func(rsp any)
}

type TimeoutOption func(*TimeoutOptions)

// WithDriver sets the timer driver deadlines are registered on.
func WithDriver(d *timer.Driver) TimeoutOption {
	return func(o *TimeoutOptions) {
		o.Driver = d
	}
}

// WithDiscard sets a function cleaning up responses that arrive after their
// call was abandoned, such as closing a late connection.
func WithDiscard(fn func(rsp any)) TimeoutOption {
	return func(o *TimeoutOptions) {
		o.Discard = fn
	}
}

type timeout[Req, Rsp any] struct {
	s    Service[Req, Rsp]
	d    time.Duration
	opts TimeoutOptions
}

// Timeout bounds every call to s by d. A zero d disables the bound.
//
// The deadline is registered when Call begins, not when the service is
// built. A call that loses the race is abandoned: its context is cancelled
// and its result, when it eventually arrives, is dropped. If the driver shuts
// down while a call is in flight the call fails with timer.ErrShutdown.
func Timeout[Req, Rsp any](s Service[Req, Rsp], d time.Duration, opts ...TimeoutOption) Service[Req, Rsp] {
	var options TimeoutOptions
	for _, o := range opts {
		o(&options)
	}
	if options.Driver == nil {
		options.Driver = timer.Default()
	}

	return &timeout[Req, Rsp]{s: s, d: d, opts: options}
}

func (t *timeout[Req, Rsp]) Ready(ctx context.Context) error {
	return t.s.Ready(ctx)
}

type result[Rsp any] struct {
	rsp Rsp
	err error
}

func (t *timeout[Req, Rsp]) Call(ctx context.Context, req Req) (Rsp, error) {
	if t.d <= 0 {
		rsp, err := t.s.Call(ctx, req)
		if err != nil {
			return rsp, &Error{Err: err}
		}
		return rsp, nil
	}

	var zero Rsp

	delay := t.opts.Driver.Delay(t.d)
	defer delay.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan result[Rsp], 1)
	go func() {
		rsp, err := t.s.Call(ctx, req)
		ch <- result[Rsp]{rsp: rsp, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return zero, &Error{Err: r.err}
		}
		return r.rsp, nil
	case <-delay.C():
		t.abandon(ch)
		if err := delay.Err(); err != nil {
			return zero, err
		}
		return zero, ErrTimeout
	case <-ctx.Done():
		t.abandon(ch)
		return zero, ctx.Err()
	}
}

func (t *timeout[Req, Rsp]) abandon(ch <-chan result[Rsp]) {
	if t.opts.Discard == nil {
		return
	}
	go func() {
		if r := <-ch; r.err == nil {
			t.opts.Discard(r.rsp)
		}
	}()
}
