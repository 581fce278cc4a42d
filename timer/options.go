package timer

import "time"

type Options struct {
	// Clock is the time source. Defaults to the system clock.
	Clock Clock
	// Resolution is the length of one wheel tick.
	Resolution time.Duration
}

type Option func(*Options)

func newOptions(opts ...Option) Options {
	options := Options{
		Clock:      RealClock,
		Resolution: time.Millisecond,
	}

	for _, o := range opts {
		o(&options)
	}

	if options.Resolution <= 0 {
		options.Resolution = time.Millisecond
	}

	return options
}

// WithClock sets the time source of the driver.
func WithClock(c Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

// Resolution sets the wheel tick length.
func Resolution(d time.Duration) Option {
	return func(o *Options) {
		o.Resolution = d
	}
}
