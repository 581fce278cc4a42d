// Package resolver resolves host:port names to dialable addresses
package resolver

import (
	"context"
	"net"

	"github.com/pkg/errors"
)

type Resolver interface {
	// Resolve returns the addresses for a host:port name, in dial order
	Resolve(ctx context.Context, name string) ([]*Record, error)
}

// A resolved address
type Record struct {
	Address string
}

// ErrNoRecords is returned when a lookup succeeds without any address
var ErrNoRecords = errors.New("resolver: no records")

// DefaultResolver asks the operating system
var DefaultResolver Resolver = NewSingleflight(&System{})

// System resolves through the net package's resolver, honouring the local
// hosts file and resolv.conf
type System struct {
	Resolver *net.Resolver
}

func (s *System) Resolve(ctx context.Context, name string) ([]*Record, error) {
	host, port, err := net.SplitHostPort(name)
	if err != nil {
		return nil, errors.Wrapf(err, "resolver: invalid name %q", name)
	}

	if ip := net.ParseIP(host); ip != nil {
		return []*Record{{Address: name}}, nil
	}

	r := s.Resolver
	if r == nil {
		r = net.DefaultResolver
	}

	addrs, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, errors.Wrapf(err, "resolver: lookup %s", host)
	}

	records := make([]*Record, 0, len(addrs))
	for _, addr := range addrs {
		records = append(records, &Record{
			Address: net.JoinHostPort(addr.IP.String(), port),
		})
	}

	if len(records) == 0 {
		return nil, errors.Wrap(ErrNoRecords, host)
	}

	return records, nil
}
