package connector

import (
	"context"
	"net"

	"github.com/micro/go-connect/resolver"
	"github.com/micro/go-connect/transport"
	"github.com/pkg/errors"
)

// TCP is the default connect service. It dials Request.Addr when set and
// the resolved addresses of the uri host otherwise, in order, until one
// answers.
type TCP struct {
	Resolver resolver.Resolver
	Dialer   *net.Dialer
}

func (t *TCP) Ready(ctx context.Context) error {
	return ctx.Err()
}

func (t *TCP) Call(ctx context.Context, req transport.Request) (net.Conn, error) {
	addrs, err := t.addrs(ctx, req)
	if err != nil {
		return nil, err
	}

	dialer := t.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	var lastErr error

	for _, addr := range addrs {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			// nobody is waiting for it any more
			if ctx.Err() != nil {
				conn.Close()
				return nil, ctx.Err()
			}
			return conn, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return nil, transport.NewError(transport.KindIO, errors.Wrapf(lastErr, "dial %s", req.Host()))
}

func (t *TCP) addrs(ctx context.Context, req transport.Request) ([]string, error) {
	if len(req.Addr) > 0 {
		return []string{req.Addr}, nil
	}

	if len(req.Host()) == 0 {
		return nil, transport.NewError(transport.KindResolve, errors.Errorf("no host in %s", req))
	}

	r := t.Resolver
	if r == nil {
		r = resolver.DefaultResolver
	}

	records, err := r.Resolve(ctx, net.JoinHostPort(req.Host(), req.Port()))
	if err != nil {
		return nil, transport.NewError(transport.KindResolve, err)
	}
	if len(records) == 0 {
		return nil, transport.NewError(transport.KindResolve, errors.Wrap(resolver.ErrNoRecords, req.Host()))
	}

	addrs := make([]string, 0, len(records))
	for _, rec := range records {
		addrs = append(addrs, rec.Address)
	}

	return addrs, nil
}
