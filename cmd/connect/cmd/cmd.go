package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/micro/go-connect/config"
	"github.com/micro/go-connect/connector"
	"github.com/micro/go-connect/logger"
	"github.com/micro/go-connect/metrics"
	"github.com/micro/go-connect/metrics/logging"
	"github.com/micro/go-connect/metrics/prometheus"
	"github.com/urfave/cli/v2"
)

var (
	// DefaultCmd is the default, unmodified root command.
	DefaultCmd Cmd = NewCmd()

	name        string = "connect"
	description string = "Dial http endpoints through the connection pool"
	version     string = "latest"
)

// Flags shared by every command. They override the config file.
var Flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		EnvVars: []string{"MICRO_CONNECT_CONFIG"},
		Usage:   "Path to a toml, yaml or json config file",
	},
	&cli.DurationFlag{
		Name:  "timeout",
		Usage: "Connect timeout, TLS handshake included",
	},
	&cli.IntFlag{
		Name:  "limit",
		Usage: "Connections per authority, 0 for no limit",
	},
	&cli.BoolFlag{
		Name:  "insecure",
		Usage: "Skip TLS certificate verification",
	},
	&cli.StringFlag{
		Name:  "resolver",
		Usage: "Name resolver. system, dns or static",
	},
	&cli.StringFlag{
		Name:  "dns_address",
		Usage: "DNS server used by the dns resolver. 1.0.0.1:53",
	},
	&cli.StringFlag{
		Name:  "log_level",
		Usage: "Log level. trace, debug, info, warn or error",
	},
	&cli.StringFlag{
		Name:  "metrics_address",
		Usage: "Serve prometheus metrics on this address. :9000",
	},
	&cli.BoolFlag{
		Name:  "log_metrics",
		Usage: "Log metrics at debug level instead of serving them",
	},
}

// Cmd is the interface that wraps the cli app.
type Cmd interface {
	// App returns the cli app within this command.
	App() *cli.App
	// Run runs the cli app within this command.
	Run() error
}

type cmd struct {
	app *cli.App
}

func (c *cmd) App() *cli.App {
	return c.app
}

func (c *cmd) Run() error {
	return c.app.Run(os.Args)
}

// App returns the cli app within the default command.
func App() *cli.App {
	return DefaultCmd.App()
}

// Register appends commands to the default app.
func Register(cmds ...*cli.Command) {
	app := DefaultCmd.App()
	app.Commands = append(app.Commands, cmds...)
}

// Run runs the cli app within the default command. On error, it prints the
// error message and exits.
func Run() {
	if err := DefaultCmd.Run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

// NewCmd returns a new command.
func NewCmd() Cmd {
	c := new(cmd)
	c.app = cli.NewApp()
	c.app.Name = name
	c.app.Usage = description
	c.app.Version = version
	c.app.Flags = Flags
	return c
}

// Config loads the config file named by the flags and applies the flags on
// top of it.
func Config(ctx *cli.Context) (*config.Config, error) {
	c, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}

	if ctx.IsSet("timeout") {
		d := config.Duration(ctx.Duration("timeout"))
		c.Timeout = &d
	}
	if ctx.IsSet("limit") {
		limit := ctx.Int("limit")
		c.Limit = &limit
	}
	if ctx.IsSet("insecure") {
		c.TLS.Insecure = ctx.Bool("insecure")
	}
	if ctx.IsSet("resolver") {
		c.Resolver.Type = ctx.String("resolver")
	}
	if ctx.IsSet("dns_address") {
		c.Resolver.Address = ctx.String("dns_address")
	}
	if ctx.IsSet("log_level") {
		c.Log.Level = ctx.String("log_level")
	}
	if ctx.IsSet("metrics_address") {
		c.Metrics.Address = ctx.String("metrics_address")
	}

	return c, c.Validate()
}

// Dispatcher builds a dispatcher from the flags. The returned function
// closes it along with anything started for it.
func Dispatcher(ctx *cli.Context) (*connector.Dispatcher, func(), error) {
	c, err := Config(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts, err := c.Options()
	if err != nil {
		return nil, nil, err
	}

	var reporter metrics.Reporter
	if ctx.Bool("log_metrics") {
		log, err := c.Logger()
		if err != nil {
			return nil, nil, err
		}
		reporter = logging.New(c.MetricsOptions()...).WithLogger(log)
	} else if reporter, err = c.Reporter(); err != nil {
		return nil, nil, err
	}
	opts = append(opts, connector.Metrics(reporter))

	d := connector.New(opts...).Finish()

	closer := func() {
		if err := d.Close(); err != nil {
			logger.Errorf("closing connections: %v", err)
		}
		if r, ok := reporter.(*prometheus.Reporter); ok {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			r.Close(shutdownCtx)
		}
	}

	return d, closer, nil
}
