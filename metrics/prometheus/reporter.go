package prometheus

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	log "github.com/micro/go-connect/logger"
	"github.com/micro/go-connect/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reporter is an implementation of metrics.Reporter:
type Reporter struct {
	options            metrics.Options
	prometheusRegistry *prometheus.Registry
	metrics            metricFamily

	mu     sync.Mutex
	server *http.Server
}

// New returns a configured prometheus reporter. Metrics are served on
// options.Address when one is set:
func New(opts ...metrics.Option) (*Reporter, error) {
	options := metrics.NewOptions(opts...)

	// Make a prometheus registry (this keeps track of any metrics we generate):
	prometheusRegistry := prometheus.NewRegistry()
	prometheusRegistry.MustRegister(collectors.NewGoCollector())
	prometheusRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: "goruntime"}))

	// Make a new Reporter:
	newReporter := &Reporter{
		options:            options,
		prometheusRegistry: prometheusRegistry,
	}

	// Add metrics families for each type:
	newReporter.metrics = newReporter.newMetricFamily()

	if len(options.Address) > 0 {
		if err := newReporter.serve(); err != nil {
			return nil, err
		}
	}

	return newReporter, nil
}

// Handler serves the registry in the prometheus exposition format:
func (r *Reporter) Handler() http.Handler {
	return promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError})
}

func (r *Reporter) serve() error {
	l, err := net.Listen("tcp", r.options.Address)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(r.options.Path, r.Handler())

	r.mu.Lock()
	r.server = &http.Server{Handler: mux}
	srv := r.server
	r.mu.Unlock()

	// Handle the metrics endpoint with prometheus:
	log.Infof("Metrics/Prometheus [http] Listening on %s%s", l.Addr(), r.options.Path)

	go func() {
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Errorf("Metrics/Prometheus [http] %v", err)
		}
	}()

	return nil
}

// Close stops serving metrics:
func (r *Reporter) Close(ctx context.Context) error {
	r.mu.Lock()
	srv := r.server
	r.server = nil
	r.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// convertTags turns Tags into prometheus labels:
func (r *Reporter) convertTags(tags metrics.Tags) prometheus.Labels {
	labels := prometheus.Labels{}
	for key, value := range r.options.DefaultTags.Merge(tags) {
		labels[r.stripUnsupportedCharacters(key)] = r.stripUnsupportedCharacters(value)
	}
	return labels
}

// listTagKeys returns a list of tag keys (we need to provide this to the Prometheus client):
func (r *Reporter) listTagKeys(tags metrics.Tags) (labelKeys []string) {
	for key := range r.options.DefaultTags.Merge(tags) {
		labelKeys = append(labelKeys, r.stripUnsupportedCharacters(key))
	}
	return
}

// stripUnsupportedCharacters cleans up a metrics key or value:
func (r *Reporter) stripUnsupportedCharacters(metricName string) string {
	valueWithoutDots := strings.Replace(metricName, ".", "_", -1)
	valueWithoutCommas := strings.Replace(valueWithoutDots, ",", "_", -1)
	valueWIthoutSpaces := strings.Replace(valueWithoutCommas, " ", "", -1)
	return valueWIthoutSpaces
}
