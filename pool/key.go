package pool

import (
	"net"
	"strings"

	"github.com/micro/go-connect/transport"
	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

// Key identifies an authority. Connections are only reused between requests
// with equal keys.
type Key struct {
	Scheme string
	Host   string
	Port   string
}

// KeyOf derives the authority key of req. Hosts are lower-cased and
// converted to their ASCII form, ports default by scheme. A request without
// a host fails with a Resolve error.
func KeyOf(req transport.Request) (Key, error) {
	if req.URI == nil {
		return Key{}, transport.NewError(transport.KindResolve, errors.New("pool: request has no uri"))
	}

	host := req.Host()
	if len(host) == 0 {
		return Key{}, transport.NewError(transport.KindResolve, errors.Errorf("pool: no host in %s", req.URI))
	}

	if net.ParseIP(host) == nil {
		ascii, err := idna.Lookup.ToASCII(host)
		if err == nil {
			host = ascii
		}
	}

	return Key{
		Scheme: req.Scheme(),
		Host:   strings.ToLower(host),
		Port:   req.Port(),
	}, nil
}

func (k Key) String() string {
	return k.Scheme + "://" + net.JoinHostPort(k.Host, k.Port)
}
