// Package connector establishes TCP and TLS connections for http clients,
// negotiates the application protocol, and pools the results per authority.
package connector

import (
	"context"
	"crypto/tls"
	"errors"
	"net"

	"github.com/micro/go-connect/metrics"
	"github.com/micro/go-connect/metrics/wrapper"
	"github.com/micro/go-connect/pool"
	"github.com/micro/go-connect/service"
	"github.com/micro/go-connect/transport"
)

// Connector builds the connect services and the dispatcher over them.
type Connector struct {
	opts Options
}

// New returns a connector configured by opts on top of the defaults.
func New(opts ...Option) *Connector {
	return &Connector{opts: newOptions(opts...)}
}

// Init applies further options.
func (c *Connector) Init(opts ...Option) {
	for _, o := range opts {
		o(&c.opts)
	}
	c.opts = c.opts.withDefaults()
}

func (c *Connector) Options() Options {
	return c.opts
}

// TCP returns the plain connect service: every connection speaks HTTP/1.1.
func (c *Connector) TCP() service.Service[transport.Request, transport.Stream] {
	base := c.base("tcp")

	s := service.Apply[transport.Request, transport.Stream](base, func(ctx context.Context, req transport.Request, s service.Service[transport.Request, net.Conn]) (transport.Stream, error) {
		conn, err := s.Call(ctx, req)
		if err != nil {
			return transport.Stream{}, err
		}
		return transport.Stream{Conn: conn, Protocol: transport.HTTP1}, nil
	})

	return c.timeout(service.MapErr(s, ioError))
}

// TLS returns the secure connect service: the base connection is wrapped in
// a TLS client and the protocol follows the ALPN outcome.
func (c *Connector) TLS() service.Service[transport.Request, transport.Stream] {
	base := c.base("tls")

	dial := service.Apply[transport.Request, handshake](base, func(ctx context.Context, req transport.Request, s service.Service[transport.Request, net.Conn]) (handshake, error) {
		conn, err := s.Call(ctx, req)
		if err != nil {
			return handshake{}, err
		}
		return handshake{conn: conn, serverName: req.Host()}, nil
	})

	s := service.AndThen(dial, service.Service[handshake, transport.Stream](&handshaker{config: c.opts.TLSConfig}))

	return c.timeout(service.MapErr(s, ioError))
}

// Finish builds the dispatcher: one pool over the TCP service, one over the
// TLS service, each with its own limit.
func (c *Connector) Finish() *Dispatcher {
	return &Dispatcher{
		tcp: pool.New(c.TCP(), c.poolOptions("tcp")...),
		tls: pool.New(c.TLS(), c.poolOptions("tls")...),
	}
}

func (c *Connector) poolOptions(name string) []pool.Option {
	opts := []pool.Option{
		pool.Name(name),
		pool.KeepAlive(c.opts.KeepAlive),
		pool.Lifetime(c.opts.Lifetime),
		pool.Limit(c.opts.Limit),
		pool.Logger(c.opts.Logger),
		pool.Metrics(c.opts.Metrics),
		pool.Driver(c.opts.Driver),
		pool.Clock(c.opts.Clock),
	}
	// only TLS says goodbye before closing
	if name == "tls" {
		opts = append(opts, pool.DisconnectTimeout(c.opts.DisconnectTimeout))
	}
	return opts
}

func (c *Connector) base(path string) service.Service[transport.Request, net.Conn] {
	return service.Wrap(c.opts.Base,
		wrapper.Service[transport.Request, net.Conn](c.opts.Metrics, "connector.dial", metrics.Tags{"path": path}),
	)
}

// timeout bounds s and folds the timeout outcome back into connect errors.
func (c *Connector) timeout(s service.Service[transport.Request, transport.Stream]) service.Service[transport.Request, transport.Stream] {
	t := service.Timeout(s, c.opts.Timeout,
		service.WithDriver(c.opts.Driver),
		service.WithDiscard(func(rsp any) {
			if stream, ok := rsp.(transport.Stream); ok && stream.Conn != nil {
				stream.Conn.Close()
			}
		}),
	)

	return service.MapErr(t, flatten)
}

func ioError(err error) error {
	return transport.NewError(transport.KindIO, err)
}

func flatten(err error) error {
	if errors.Is(err, service.ErrTimeout) {
		return transport.NewError(transport.KindTimeout, err)
	}

	var serr *service.Error
	if errors.As(err, &serr) {
		return serr.Err
	}

	return err
}

type handshake struct {
	conn       net.Conn
	serverName string
}

type handshaker struct {
	config *tls.Config
}

func (h *handshaker) Ready(ctx context.Context) error {
	return ctx.Err()
}

func (h *handshaker) Call(ctx context.Context, req handshake) (transport.Stream, error) {
	config := h.config.Clone()
	if len(config.ServerName) == 0 {
		config.ServerName = req.serverName
	}

	conn := tls.Client(req.conn, config)
	if err := conn.HandshakeContext(ctx); err != nil {
		req.conn.Close()
		return transport.Stream{}, transport.NewError(transport.KindTLSHandshake, err)
	}

	// nobody is waiting for it any more
	if ctx.Err() != nil {
		conn.Close()
		return transport.Stream{}, ctx.Err()
	}

	state := conn.ConnectionState()

	return transport.Stream{
		Conn:     conn,
		Protocol: transport.ProtocolFromALPN([]byte(state.NegotiatedProtocol)),
	}, nil
}
