// Package config loads connector settings from toml, yaml or json files and
// MICRO_CONNECT_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/micro/go-connect/config/encoder"
	"github.com/micro/go-connect/config/encoder/json"
	"github.com/micro/go-connect/config/encoder/toml"
	"github.com/micro/go-connect/config/encoder/yaml"
	"github.com/micro/go-connect/connector"
	"github.com/pkg/errors"
)

// Config mirrors the connector options. Unset fields take the connector
// defaults, so a zero limit or timeout in a file really means zero.
type Config struct {
	Timeout           *Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	Lifetime          *Duration `json:"lifetime,omitempty" yaml:"lifetime,omitempty" toml:"lifetime,omitempty"`
	KeepAlive         *Duration `json:"keep_alive,omitempty" yaml:"keep_alive,omitempty" toml:"keep_alive,omitempty"`
	DisconnectTimeout *Duration `json:"disconnect_timeout,omitempty" yaml:"disconnect_timeout,omitempty" toml:"disconnect_timeout,omitempty"`
	Limit             *int      `json:"limit,omitempty" yaml:"limit,omitempty" toml:"limit,omitempty"`

	TLS      TLS      `json:"tls" yaml:"tls" toml:"tls"`
	Resolver Resolver `json:"resolver" yaml:"resolver" toml:"resolver"`
	Log      Log      `json:"log" yaml:"log" toml:"log"`
	Metrics  Metrics  `json:"metrics" yaml:"metrics" toml:"metrics"`
}

type TLS struct {
	// Insecure skips certificate verification
	Insecure bool `json:"insecure" yaml:"insecure" toml:"insecure"`
	// ServerName overrides the name verified on every handshake
	ServerName string `json:"server_name" yaml:"server_name" toml:"server_name"`
}

type Resolver struct {
	// Type is one of system, dns or static
	Type string `json:"type" yaml:"type" toml:"type"`
	// Address of the dns server
	Address string `json:"address" yaml:"address" toml:"address"`
	// Hosts of the static resolver
	Hosts map[string][]string `json:"hosts" yaml:"hosts" toml:"hosts"`
}

type Log struct {
	Level string `json:"level" yaml:"level" toml:"level"`
}

type Metrics struct {
	// Address to serve prometheus metrics on, metrics are dropped when empty
	Address string `json:"address" yaml:"address" toml:"address"`
	Path    string `json:"path" yaml:"path" toml:"path"`
	// Tags added to every metric
	Tags map[string]string `json:"tags" yaml:"tags" toml:"tags"`
}

const envPrefix = "MICRO_CONNECT_"

// Defaults returns the configuration matching the connector defaults.
func Defaults() *Config {
	limit := connector.DefaultLimit

	return &Config{
		Timeout:           durationOf(connector.DefaultTimeout),
		Lifetime:          durationOf(connector.DefaultLifetime),
		KeepAlive:         durationOf(connector.DefaultKeepAlive),
		DisconnectTimeout: durationOf(connector.DefaultDisconnectTimeout),
		Limit:             &limit,
		Resolver: Resolver{
			Type: "system",
		},
		Log: Log{
			Level: "info",
		},
		Metrics: Metrics{
			Path: "/metrics",
		},
	}
}

// Load reads path, when given, applies the environment on top and fills
// the rest from Defaults. The decoder is chosen by file extension.
func Load(path string) (*Config, error) {
	c := new(Config)

	if len(path) > 0 {
		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := c.loadEnv(); err != nil {
		return nil, err
	}

	if err := mergo.Merge(c, Defaults()); err != nil {
		return nil, errors.Wrap(err, "config: merge defaults")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// EncoderFor returns the encoder of a config file by its extension.
func EncoderFor(path string) (encoder.Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.NewEncoder(), nil
	case ".yaml", ".yml":
		return yaml.NewEncoder(), nil
	case ".json":
		return json.NewEncoder(), nil
	}
	return nil, errors.Errorf("config: unsupported format %q", filepath.Ext(path))
}

func (c *Config) loadFile(path string) error {
	enc, err := EncoderFor(path)
	if err != nil {
		return err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "config: read")
	}

	if err := enc.Decode(b, c); err != nil {
		return errors.Wrapf(err, "config: decode %s", enc)
	}

	return nil
}

func (c *Config) loadEnv() error {
	durations := map[string]**Duration{
		"TIMEOUT":            &c.Timeout,
		"LIFETIME":           &c.Lifetime,
		"KEEP_ALIVE":         &c.KeepAlive,
		"DISCONNECT_TIMEOUT": &c.DisconnectTimeout,
	}

	for name, field := range durations {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		d := new(Duration)
		if err := d.UnmarshalText([]byte(v)); err != nil {
			return errors.Wrap(err, envPrefix+name)
		}
		*field = d
	}

	if v, ok := os.LookupEnv(envPrefix + "LIMIT"); ok {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, envPrefix+"LIMIT")
		}
		c.Limit = &limit
	}

	if v, ok := os.LookupEnv(envPrefix + "TLS_INSECURE"); ok {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, envPrefix+"TLS_INSECURE")
		}
		c.TLS.Insecure = insecure
	}

	strs := map[string]*string{
		"RESOLVER":        &c.Resolver.Type,
		"DNS_ADDRESS":     &c.Resolver.Address,
		"LOG_LEVEL":       &c.Log.Level,
		"METRICS_ADDRESS": &c.Metrics.Address,
		"METRICS_PATH":    &c.Metrics.Path,
		"TLS_SERVER_NAME": &c.TLS.ServerName,
	}

	for name, field := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*field = v
		}
	}

	return nil
}

// Validate reports settings no connector could run with.
func (c *Config) Validate() error {
	if c.Limit != nil && *c.Limit < 0 {
		return errors.Errorf("config: negative limit %d", *c.Limit)
	}

	for name, d := range map[string]*Duration{
		"timeout":            c.Timeout,
		"lifetime":           c.Lifetime,
		"keep_alive":         c.KeepAlive,
		"disconnect_timeout": c.DisconnectTimeout,
	} {
		if d != nil && *d < 0 {
			return errors.Errorf("config: negative %s", name)
		}
	}

	switch c.Resolver.Type {
	case "", "system", "dns", "static":
	default:
		return errors.Errorf("config: unknown resolver %q", c.Resolver.Type)
	}

	return nil
}
