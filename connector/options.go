package connector

import (
	"crypto/tls"
	"net"
	"time"

	"github.com/micro/go-connect/logger"
	"github.com/micro/go-connect/metrics"
	"github.com/micro/go-connect/metrics/noop"
	"github.com/micro/go-connect/resolver"
	"github.com/micro/go-connect/service"
	"github.com/micro/go-connect/timer"
	"github.com/micro/go-connect/transport"
	utls "github.com/micro/go-connect/util/tls"
)

var (
	DefaultTimeout           = time.Second
	DefaultLifetime          = 75 * time.Second
	DefaultKeepAlive         = 15 * time.Second
	DefaultDisconnectTimeout = 3000 * time.Millisecond
	DefaultLimit             = 100
)

type Options struct {
	// Timeout bounds connecting, TLS handshake included. Zero disables it.
	Timeout time.Duration
	// Lifetime bounds the age of a reusable connection. Zero means forever.
	Lifetime time.Duration
	// KeepAlive bounds how long a connection may sit idle. Zero means forever.
	KeepAlive time.Duration
	// DisconnectTimeout bounds the graceful close of TLS connections.
	DisconnectTimeout time.Duration
	// Limit caps connections per authority in each pool. Zero means no cap.
	Limit int

	// TLSConfig is cloned for every handshake
	TLSConfig *tls.Config
	// Base establishes raw connections. Defaults to a TCP dialer resolving
	// through Resolver.
	Base     service.Service[transport.Request, net.Conn]
	Resolver resolver.Resolver
	Dialer   *net.Dialer

	Logger  logger.Logger
	Metrics metrics.Reporter
	Driver  *timer.Driver
	Clock   timer.Clock
}

type Option func(*Options)

func newOptions(opts ...Option) Options {
	options := Options{
		Timeout:           DefaultTimeout,
		Lifetime:          DefaultLifetime,
		KeepAlive:         DefaultKeepAlive,
		DisconnectTimeout: DefaultDisconnectTimeout,
		Limit:             DefaultLimit,
	}

	for _, o := range opts {
		o(&options)
	}

	return options.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.TLSConfig == nil {
		o.TLSConfig = utls.Config()
	}
	if o.Resolver == nil {
		o.Resolver = resolver.DefaultResolver
	}
	if o.Dialer == nil {
		o.Dialer = &net.Dialer{}
	}
	if o.Base == nil {
		o.Base = &TCP{Resolver: o.Resolver, Dialer: o.Dialer}
	}
	if o.Logger == nil {
		o.Logger = logger.DefaultLogger
	}
	if o.Metrics == nil {
		o.Metrics = noop.New()
	}
	if o.Driver == nil {
		o.Driver = timer.Default()
	}
	if o.Clock == nil {
		o.Clock = o.Driver.Options().Clock
	}
	return o
}

// Timeout sets the connect timeout
func Timeout(t time.Duration) Option {
	return func(o *Options) {
		o.Timeout = t
	}
}

// Lifetime sets the maximum age of a pooled connection
func Lifetime(t time.Duration) Option {
	return func(o *Options) {
		o.Lifetime = t
	}
}

// KeepAlive sets the maximum idle time of a pooled connection
func KeepAlive(t time.Duration) Option {
	return func(o *Options) {
		o.KeepAlive = t
	}
}

// DisconnectTimeout sets how long a TLS connection may take to close
func DisconnectTimeout(t time.Duration) Option {
	return func(o *Options) {
		o.DisconnectTimeout = t
	}
}

// Limit sets the per authority connection limit
func Limit(i int) Option {
	return func(o *Options) {
		o.Limit = i
	}
}

// TLSConfig sets the client TLS config
func TLSConfig(c *tls.Config) Option {
	return func(o *Options) {
		o.TLSConfig = c
	}
}

// Base replaces the TCP connect service
func Base(s service.Service[transport.Request, net.Conn]) Option {
	return func(o *Options) {
		o.Base = s
	}
}

// Resolver sets the resolver of the TCP connect service
func Resolver(r resolver.Resolver) Option {
	return func(o *Options) {
		o.Resolver = r
	}
}

// Dialer sets the dialer of the TCP connect service
func Dialer(d *net.Dialer) Option {
	return func(o *Options) {
		o.Dialer = d
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
