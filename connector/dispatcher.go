package connector

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/micro/go-connect/pool"
	"github.com/micro/go-connect/transport"
)

// Source tells which pool a connection came from.
type Source int

const (
	FromTCP Source = iota
	FromTLS
)

func (s Source) String() string {
	switch s {
	case FromTCP:
		return "tcp"
	case FromTLS:
		return "tls"
	}
	return "unknown"
}

// Connection is a pooled connection tagged with its source. Release hands
// it back to that pool.
type Connection struct {
	*pool.Conn
	Source Source
}

// Dispatcher routes https and wss requests to the TLS pool and everything
// else to the TCP pool.
type Dispatcher struct {
	tcp *pool.Pool
	tls *pool.Pool
}

// Ready blocks until both pools are ready.
func (d *Dispatcher) Ready(ctx context.Context) error {
	if err := d.tcp.Ready(ctx); err != nil {
		return err
	}
	return d.tls.Ready(ctx)
}

// ReadyFor blocks until the pool serving req could hand out a connection
// without waiting.
func (d *Dispatcher) ReadyFor(ctx context.Context, req transport.Request) error {
	p, _ := d.route(req)
	return p.ReadyFor(ctx, req)
}

func (d *Dispatcher) Call(ctx context.Context, req transport.Request) (*Connection, error) {
	p, source := d.route(req)

	conn, err := p.Call(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Connection{Conn: conn, Source: source}, nil
}

// TCP returns the pool of plain connections.
func (d *Dispatcher) TCP() *pool.Pool {
	return d.tcp
}

// TLS returns the pool of secure connections.
func (d *Dispatcher) TLS() *pool.Pool {
	return d.tls
}

// Close closes both pools.
func (d *Dispatcher) Close() error {
	var merr *multierror.Error

	if err := d.tcp.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := d.tls.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}

	return merr.ErrorOrNil()
}

func (d *Dispatcher) route(req transport.Request) (*pool.Pool, Source) {
	if req.Secure() {
		return d.tls, FromTLS
	}
	return d.tcp, FromTCP
}
