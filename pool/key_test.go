package pool

import (
	"context"
	"net/url"
	"testing"

	"github.com/micro/go-connect/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOf(t *testing.T) {
	testData := []struct {
		uri string
		key Key
		str string
	}{
		{"http://example.com/path", Key{"http", "example.com", "80"}, "http://example.com:80"},
		{"HTTP://Example.COM", Key{"http", "example.com", "80"}, "http://example.com:80"},
		{"https://example.com", Key{"https", "example.com", "443"}, "https://example.com:443"},
		{"wss://example.com:8443/ws", Key{"wss", "example.com", "8443"}, "wss://example.com:8443"},
		{"ws://example.com", Key{"ws", "example.com", "80"}, "ws://example.com:80"},
		{"https://bücher.de", Key{"https", "xn--bcher-kva.de", "443"}, "https://xn--bcher-kva.de:443"},
		{"http://[::1]:8080", Key{"http", "::1", "8080"}, "http://[::1]:8080"},
	}

	for _, d := range testData {
		u, err := url.Parse(d.uri)
		require.NoError(t, err, d.uri)

		key, err := KeyOf(transport.NewRequest(u))
		require.NoError(t, err, d.uri)
		assert.Equal(t, d.key, key, d.uri)
		assert.Equal(t, d.str, key.String(), d.uri)
	}
}

func TestKeyOfInvalid(t *testing.T) {
	_, err := KeyOf(transport.Request{})
	require.Error(t, err)
	assert.Equal(t, transport.KindResolve, transport.KindOf(err))

	u, err := url.Parse("/relative")
	require.NoError(t, err)
	_, err = KeyOf(transport.NewRequest(u))
	require.Error(t, err)
	assert.Equal(t, transport.KindResolve, transport.KindOf(err))

	// the same error reaches callers of the pool
	p := New(new(fakeConnector))
	defer p.Close()
	_, err = p.Call(context.Background(), transport.NewRequest(u))
	assert.Equal(t, transport.KindResolve, transport.KindOf(err))
}
