// Package static is a static resolver
package static

import (
	"context"
	"net"

	"github.com/micro/go-connect/resolver"
)

// Resolver returns fixed addresses per host. Names with no entry resolve to
// themselves.
type Resolver struct {
	// Hosts maps a host name to its addresses. An address without a port
	// takes the port of the resolved name.
	Hosts map[string][]string
}

func (r *Resolver) Resolve(ctx context.Context, name string) ([]*resolver.Record, error) {
	host, port, err := net.SplitHostPort(name)
	if err != nil {
		host, port = name, ""
	}

	nodes, ok := r.Hosts[host]
	if !ok || len(nodes) == 0 {
		return []*resolver.Record{
			{Address: name},
		}, nil
	}

	records := make([]*resolver.Record, 0, len(nodes))

	for _, node := range nodes {
		if _, _, err := net.SplitHostPort(node); err != nil && port != "" {
			node = net.JoinHostPort(node, port)
		}
		records = append(records, &resolver.Record{
			Address: node,
		})
	}

	return records, nil
}
