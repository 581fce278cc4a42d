package transport

import (
	"errors"
	"net/url"
	"testing"

	perrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolFromALPN(t *testing.T) {
	tests := []struct {
		name  string
		proto string
		want  Protocol
	}{
		{"none", "", HTTP1},
		{"http1", "http/1.1", HTTP1},
		{"h2", "h2", HTTP2},
		{"h2c", "h2c", HTTP2},
		{"embedded", "http/1.1,h2", HTTP2},
		{"split", "h/2", HTTP1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProtocolFromALPN([]byte(tt.proto)))
		})
	}
}

func TestRequest(t *testing.T) {
	u, err := url.Parse("HTTPS://example.com/path")
	require.NoError(t, err)

	req := NewRequest(u)
	assert.Equal(t, "https", req.Scheme())
	assert.Equal(t, "example.com", req.Host())
	assert.Equal(t, "443", req.Port())
	assert.True(t, req.Secure())

	direct := req.WithAddr("10.0.0.1:8443")
	assert.Equal(t, "10.0.0.1:8443", direct.Addr)
	assert.Empty(t, req.Addr)

	u, err = url.Parse("ws://[::1]:9000")
	require.NoError(t, err)
	req = NewRequest(u)
	assert.Equal(t, "::1", req.Host())
	assert.Equal(t, "9000", req.Port())
	assert.False(t, req.Secure())
}

func TestErrorKinds(t *testing.T) {
	err := NewError(KindTimeout, nil)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, errors.Is(err, ErrDisconnected))

	cause := errors.New("connection refused")
	err = NewError(KindIO, perrors.Wrap(cause, "dial"))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindIO, KindOf(err))

	// already classified errors keep their kind
	again := NewError(KindResolve, err)
	assert.Equal(t, KindIO, KindOf(again))

	assert.Equal(t, KindIO, KindOf(errors.New("plain")))
	assert.Contains(t, NewError(KindTLSHandshake, cause).Error(), "tls handshake")
}
