package pool

import (
	"time"

	"github.com/micro/go-connect/logger"
	"github.com/micro/go-connect/metrics"
	"github.com/micro/go-connect/metrics/noop"
	"github.com/micro/go-connect/timer"
)

type Options struct {
	// Name tags the pool's metrics and logs
	Name string
	// KeepAlive bounds how long a connection may sit idle. Zero means forever.
	KeepAlive time.Duration
	// Lifetime bounds the age of a reusable connection. Zero means forever.
	Lifetime time.Duration
	// DisconnectTimeout bounds the graceful close of TLS connections before
	// the socket is dropped. Zero waits for the close to finish.
	DisconnectTimeout time.Duration
	// Limit caps the connections per authority, idle and in use. Zero means
	// no cap.
	Limit int

	Logger  logger.Logger
	Metrics metrics.Reporter
	Driver  *timer.Driver
	Clock   timer.Clock
}

type Option func(*Options)

func newOptions(opts ...Option) Options {
	var options Options
	for _, o := range opts {
		o(&options)
	}

	if options.Logger == nil {
		options.Logger = logger.DefaultLogger
	}
	if options.Metrics == nil {
		options.Metrics = noop.New()
	}
	if options.Driver == nil {
		options.Driver = timer.Default()
	}
	if options.Clock == nil {
		options.Clock = options.Driver.Options().Clock
	}

	return options
}

func Name(n string) Option {
	return func(o *Options) {
		o.Name = n
	}
}

func KeepAlive(t time.Duration) Option {
	return func(o *Options) {
		o.KeepAlive = t
	}
}

func Lifetime(t time.Duration) Option {
	return func(o *Options) {
		o.Lifetime = t
	}
}

func DisconnectTimeout(t time.Duration) Option {
	return func(o *Options) {
		o.DisconnectTimeout = t
	}
}

func Limit(i int) Option {
	return func(o *Options) {
		o.Limit = i
	}
}

func Logger(l logger.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func Metrics(r metrics.Reporter) Option {
	return func(o *Options) {
		o.Metrics = r
	}
}

// Driver sets the timer driver racing disconnects. The pool reads time from
// the driver's clock unless Clock is set as well.
func Driver(d *timer.Driver) Option {
	return func(o *Options) {
		o.Driver = d
	}
}

func Clock(c timer.Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}
