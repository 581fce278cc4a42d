package transport

import (
	"bytes"

	"golang.org/x/net/http2"
)

// Protocol is the application protocol spoken on a connection.
type Protocol int

const (
	HTTP1 Protocol = iota
	HTTP2
)

func (p Protocol) String() string {
	switch p {
	case HTTP1:
		return "http/1.1"
	case HTTP2:
		return "h2"
	}
	return "unknown"
}

var h2 = []byte(http2.NextProtoTLS)

// ProtocolFromALPN maps the negotiated ALPN bytes to a Protocol: any
// contiguous "h2" pair selects HTTP2, everything else (including nothing
// negotiated) is HTTP1.
func ProtocolFromALPN(proto []byte) Protocol {
	if bytes.Contains(proto, h2) {
		return HTTP2
	}
	return HTTP1
}
