// Package dns resolves names by querying a DNS server directly
package dns

import (
	"context"
	"net"

	"github.com/micro/go-connect/resolver"
	"github.com/miekg/dns"
	"github.com/pkg/errors"
)

// DefaultAddress is the server queried when none is set.
const DefaultAddress = "1.0.0.1:53"

// Resolver is a DNS resolver asking for A and AAAA records
type Resolver struct {
	// The resolver address to use
	Address string
	// Client used for the exchange, dns.Client{} when nil
	Client *dns.Client
}

// Resolve looks up the host of a host:port name. IPv4 records come first.
func (r *Resolver) Resolve(ctx context.Context, name string) ([]*resolver.Record, error) {
	host, port, err := net.SplitHostPort(name)
	if err != nil {
		return nil, errors.Wrapf(err, "dns: invalid name %q", name)
	}

	if len(host) == 0 {
		host = "localhost"
	}

	// parsed an actual ip
	if v := net.ParseIP(host); v != nil {
		return []*resolver.Record{
			{Address: net.JoinHostPort(host, port)},
		}, nil
	}

	//nolint:prealloc
	var records []*resolver.Record

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		ips, err := r.query(ctx, host, qtype)
		if err != nil {
			return nil, err
		}

		for _, ip := range ips {
			// join resolved record with port
			records = append(records, &resolver.Record{
				Address: net.JoinHostPort(ip.String(), port),
			})
		}
	}

	if len(records) == 0 {
		return nil, errors.Wrap(resolver.ErrNoRecords, host)
	}

	return records, nil
}

func (r *Resolver) query(ctx context.Context, host string, qtype uint16) ([]net.IP, error) {
	address := r.Address
	if len(address) == 0 {
		address = DefaultAddress
	}

	client := r.Client
	if client == nil {
		client = new(dns.Client)
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)

	rec, _, err := client.ExchangeContext(ctx, m, address)
	if err != nil {
		return nil, errors.Wrapf(err, "dns: query %s %s", dns.TypeToString[qtype], host)
	}

	if rec.Rcode != dns.RcodeSuccess && rec.Rcode != dns.RcodeNameError {
		return nil, errors.Errorf("dns: query %s %s: %s", dns.TypeToString[qtype], host, dns.RcodeToString[rec.Rcode])
	}

	var ips []net.IP

	for _, answer := range rec.Answer {
		// check record type matches
		switch a := answer.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				ips = append(ips, a.A)
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				ips = append(ips, a.AAAA)
			}
		}
	}

	return ips, nil
}
