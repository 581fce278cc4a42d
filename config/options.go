package config

import (
	"crypto/tls"

	"github.com/micro/go-connect/connector"
	"github.com/micro/go-connect/logger"
	"github.com/micro/go-connect/metrics"
	"github.com/micro/go-connect/metrics/noop"
	"github.com/micro/go-connect/metrics/prometheus"
	"github.com/micro/go-connect/resolver"
	"github.com/micro/go-connect/resolver/dns"
	"github.com/micro/go-connect/resolver/static"
	utls "github.com/micro/go-connect/util/tls"
	"github.com/pkg/errors"
)

// Options converts the configuration into connector options. Metrics are
// left out, see Reporter.
func (c *Config) Options() ([]connector.Option, error) {
	log, err := c.Logger()
	if err != nil {
		return nil, err
	}

	r, err := c.NewResolver()
	if err != nil {
		return nil, err
	}

	opts := []connector.Option{
		connector.TLSConfig(c.TLSConfig()),
		connector.Resolver(r),
		connector.Logger(log),
	}

	if c.Timeout != nil {
		opts = append(opts, connector.Timeout(c.Timeout.duration()))
	}
	if c.Lifetime != nil {
		opts = append(opts, connector.Lifetime(c.Lifetime.duration()))
	}
	if c.KeepAlive != nil {
		opts = append(opts, connector.KeepAlive(c.KeepAlive.duration()))
	}
	if c.DisconnectTimeout != nil {
		opts = append(opts, connector.DisconnectTimeout(c.DisconnectTimeout.duration()))
	}
	if c.Limit != nil {
		opts = append(opts, connector.Limit(*c.Limit))
	}

	return opts, nil
}

// Logger returns a logger at the configured level.
func (c *Config) Logger() (logger.Logger, error) {
	if len(c.Log.Level) == 0 {
		return logger.DefaultLogger, nil
	}

	lvl, err := logger.GetLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "config: log level")
	}

	return logger.NewLogger(logger.WithLevel(lvl)), nil
}

// TLSConfig returns the client TLS config.
func (c *Config) TLSConfig() *tls.Config {
	config := utls.Config()
	if c.TLS.Insecure {
		config = utls.InsecureConfig()
	}
	config.ServerName = c.TLS.ServerName
	return config
}

// NewResolver builds the configured resolver. Lookups are deduplicated.
func (c *Config) NewResolver() (resolver.Resolver, error) {
	switch c.Resolver.Type {
	case "", "system":
		return resolver.DefaultResolver, nil
	case "dns":
		return resolver.NewSingleflight(&dns.Resolver{Address: c.Resolver.Address}), nil
	case "static":
		return &static.Resolver{Hosts: c.Resolver.Hosts}, nil
	}
	return nil, errors.Errorf("config: unknown resolver %q", c.Resolver.Type)
}

// Reporter returns a prometheus reporter serving on the metrics address, or
// a reporter dropping everything when there is none.
func (c *Config) Reporter() (metrics.Reporter, error) {
	if len(c.Metrics.Address) == 0 {
		return noop.New(), nil
	}

	r, err := prometheus.New(c.MetricsOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "config: metrics")
	}

	return r, nil
}

// MetricsOptions returns the options shared by every reporter.
func (c *Config) MetricsOptions() []metrics.Option {
	opts := []metrics.Option{metrics.Address(c.Metrics.Address)}
	if len(c.Metrics.Path) > 0 {
		opts = append(opts, metrics.Path(c.Metrics.Path))
	}
	if len(c.Metrics.Tags) > 0 {
		opts = append(opts, metrics.DefaultTags(c.Metrics.Tags))
	}
	return opts
}
