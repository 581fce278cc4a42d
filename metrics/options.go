package metrics

// DefaultPath is where a serving reporter exposes its metrics.
const DefaultPath = "/metrics"

type Option func(*Options)

// Options configure a Reporter. Reporters that do not serve anything ignore
// Address and Path.
type Options struct {
	// Address to serve metrics on, nothing is served when empty
	Address string
	Path    string
	// DefaultTags are merged under the tags of every metric
	DefaultTags Tags
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Path:        DefaultPath,
		DefaultTags: make(Tags),
	}

	for _, o := range opts {
		o(&options)
	}

	return options
}

// Address to listen on for scrapes.
func Address(a string) Option {
	return func(o *Options) {
		o.Address = a
	}
}

// Path to serve metrics under.
func Path(p string) Option {
	return func(o *Options) {
		o.Path = p
	}
}

// DefaultTags tags every metric reported, e.g. with the host name.
func DefaultTags(t Tags) Option {
	return func(o *Options) {
		o.DefaultTags = t
	}
}
