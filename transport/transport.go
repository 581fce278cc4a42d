// Package transport holds the types shared by every layer of the connect
// stack: the connect request, the established stream and the protocol tag.
package transport

import (
	"net"
	"net/url"
	"strings"
)

// Request asks for a connection to the authority of URI. Addr, when set, is a
// pre-resolved host:port and skips name resolution.
type Request struct {
	URI  *url.URL
	Addr string
}

// NewRequest builds a request for uri.
func NewRequest(uri *url.URL) Request {
	return Request{URI: uri}
}

// WithAddr returns a copy of the request dialling addr directly.
func (r Request) WithAddr(addr string) Request {
	r.Addr = addr
	return r
}

// Scheme returns the lower-cased scheme of the request uri.
func (r Request) Scheme() string {
	if r.URI == nil {
		return ""
	}
	return strings.ToLower(r.URI.Scheme)
}

// Host returns the host of the request uri without port or brackets.
func (r Request) Host() string {
	if r.URI == nil {
		return ""
	}
	return r.URI.Hostname()
}

// Port returns the explicit port of the uri or the scheme default.
func (r Request) Port() string {
	if r.URI == nil {
		return ""
	}
	if p := r.URI.Port(); p != "" {
		return p
	}
	return DefaultPort(r.Scheme())
}

// Secure reports whether the request must be served over TLS.
func (r Request) Secure() bool {
	return IsSecure(r.Scheme())
}

func (r Request) String() string {
	if r.URI == nil {
		return "<nil>"
	}
	if r.Addr != "" {
		return r.URI.String() + " via " + r.Addr
	}
	return r.URI.String()
}

// IsSecure reports whether scheme names a TLS transport.
func IsSecure(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "https", "wss":
		return true
	}
	return false
}

// DefaultPort returns the well known port of scheme.
func DefaultPort(scheme string) string {
	if IsSecure(scheme) {
		return "443"
	}
	return "80"
}

// Stream is an established connection tagged with the application protocol
// negotiated on it.
type Stream struct {
	Conn     net.Conn
	Protocol Protocol
}
