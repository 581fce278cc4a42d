package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/micro/go-connect/connector"
	"github.com/micro/go-connect/metrics"
	"github.com/micro/go-connect/metrics/noop"
	"github.com/micro/go-connect/resolver"
	"github.com/micro/go-connect/resolver/static"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Duration(time.Second), *c.Timeout)
	assert.Equal(t, Duration(75*time.Second), *c.Lifetime)
	assert.Equal(t, Duration(15*time.Second), *c.KeepAlive)
	assert.Equal(t, Duration(3*time.Second), *c.DisconnectTimeout)
	assert.Equal(t, 100, *c.Limit)
	assert.Equal(t, "system", c.Resolver.Type)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFormats(t *testing.T) {
	testData := []struct {
		name    string
		content string
	}{
		{"connect.toml", `
timeout = "2s"
keep_alive = "30s"
limit = 0

[resolver]
type = "static"

[resolver.hosts]
"example.com" = ["10.0.0.1"]
`},
		{"connect.yaml", `
timeout: 2s
keep_alive: 30s
limit: 0
resolver:
  type: static
  hosts:
    example.com: ["10.0.0.1"]
`},
		{"connect.json", `{
  "timeout": "2s",
  "keep_alive": "30s",
  "limit": 0,
  "resolver": {"type": "static", "hosts": {"example.com": ["10.0.0.1"]}}
}`},
	}

	for _, d := range testData {
		t.Run(d.name, func(t *testing.T) {
			c, err := Load(write(t, d.name, d.content))
			require.NoError(t, err)

			assert.Equal(t, Duration(2*time.Second), *c.Timeout)
			assert.Equal(t, Duration(30*time.Second), *c.KeepAlive)
			// an explicit zero survives the defaults
			assert.Equal(t, 0, *c.Limit)
			// untouched fields take the defaults
			assert.Equal(t, Duration(75*time.Second), *c.Lifetime)
			assert.Equal(t, []string{"10.0.0.1"}, c.Resolver.Hosts["example.com"])

			r, err := c.NewResolver()
			require.NoError(t, err)
			assert.IsType(t, &static.Resolver{}, r)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MICRO_CONNECT_TIMEOUT", "250ms")
	t.Setenv("MICRO_CONNECT_LIMIT", "7")
	t.Setenv("MICRO_CONNECT_TLS_INSECURE", "true")
	t.Setenv("MICRO_CONNECT_LOG_LEVEL", "debug")

	path := write(t, "connect.yaml", "timeout: 5s\nlimit: 3\n")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Duration(250*time.Millisecond), *c.Timeout)
	assert.Equal(t, 7, *c.Limit)
	assert.True(t, c.TLS.Insecure)
	assert.True(t, c.TLSConfig().InsecureSkipVerify)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(write(t, "connect.ini", "timeout=1s"))
	assert.Error(t, err)

	_, err = Load(write(t, "connect.yaml", "timeout: soon\n"))
	assert.Error(t, err)

	_, err = Load(write(t, "connect.yaml", "limit: -1\n"))
	assert.Error(t, err)

	_, err = Load(write(t, "connect.yaml", "resolver:\n  type: carrier-pigeon\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	t.Setenv("MICRO_CONNECT_LIMIT", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	c, err := Load(write(t, "connect.toml", "timeout = \"3s\"\nlimit = 5\n"))
	require.NoError(t, err)

	opts, err := c.Options()
	require.NoError(t, err)

	o := connector.New(opts...).Options()
	assert.Equal(t, 3*time.Second, o.Timeout)
	assert.Equal(t, 5, o.Limit)
	assert.Equal(t, 75*time.Second, o.Lifetime)
	assert.Equal(t, resolver.DefaultResolver, o.Resolver)
	assert.Equal(t, []string{"h2", "http/1.1"}, o.TLSConfig.NextProtos)

	r, err := c.Reporter()
	require.NoError(t, err)
	assert.IsType(t, &noop.Reporter{}, r)

	c.Metrics.Tags = map[string]string{"host": "edge-1"}
	mo := metrics.NewOptions(c.MetricsOptions()...)
	assert.Equal(t, metrics.Tags{"host": "edge-1"}, mo.DefaultTags)
	assert.Equal(t, "/metrics", mo.Path)

	c.Log.Level = "loud"
	_, err = c.Options()
	assert.Error(t, err)
}

func TestDurationText(t *testing.T) {
	b, err := Duration(1500 * time.Millisecond).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(b))
}
