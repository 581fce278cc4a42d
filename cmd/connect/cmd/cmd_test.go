package cmd

import (
	"testing"
	"time"

	"github.com/micro/go-connect/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func run(t *testing.T, args ...string) *config.Config {
	t.Helper()

	var c *config.Config
	app := cli.NewApp()
	app.Flags = Flags
	app.Action = func(ctx *cli.Context) error {
		var err error
		c, err = Config(ctx)
		return err
	}

	require.NoError(t, app.Run(append([]string{"connect"}, args...)))
	return c
}

func TestConfigDefaults(t *testing.T) {
	c := run(t)

	require.NotNil(t, c.Timeout)
	assert.Equal(t, config.Duration(time.Second), *c.Timeout)
	assert.False(t, c.TLS.Insecure)
}

func TestConfigFlags(t *testing.T) {
	c := run(t, "--timeout", "250ms", "--limit", "0", "--insecure", "--resolver", "dns", "--dns_address", "127.0.0.1:53")

	assert.Equal(t, config.Duration(250*time.Millisecond), *c.Timeout)
	assert.Equal(t, 0, *c.Limit)
	assert.True(t, c.TLS.Insecure)
	assert.Equal(t, "dns", c.Resolver.Type)
	assert.Equal(t, "127.0.0.1:53", c.Resolver.Address)
}

func TestDispatcherBadLevel(t *testing.T) {
	app := cli.NewApp()
	app.Flags = Flags
	app.Action = func(ctx *cli.Context) error {
		_, _, err := Dispatcher(ctx)
		return err
	}

	assert.Error(t, app.Run([]string{"connect", "--log_level", "loud"}))
}
