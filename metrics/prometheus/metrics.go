package prometheus

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/micro/go-connect/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrPrometheusPanic is a catch-all for the panics which can be thrown by the Prometheus client:
var ErrPrometheusPanic = errors.New("The Prometheus client panicked. Did you do something like change the tag cardinality or the type of a metric?")

// objectives is the quantile spread kept for timings, with allowed error:
var objectives = map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}

// metricFamily keeps one vector per metric name, created on first use:
type metricFamily struct {
	mu       sync.Mutex
	registry prometheus.Registerer
	counters map[string]*prometheus.CounterVec
	gauges   map[string]*prometheus.GaugeVec
	timings  map[string]*prometheus.SummaryVec
}

func (r *Reporter) newMetricFamily() metricFamily {
	return metricFamily{
		registry: r.prometheusRegistry,
		counters: make(map[string]*prometheus.CounterVec),
		gauges:   make(map[string]*prometheus.GaugeVec),
		timings:  make(map[string]*prometheus.SummaryVec),
	}
}

// familyKey keys a vector by name and label set, so a name reused with other
// labels surfaces as a registration panic rather than a silent clash:
func familyKey(name string, labelNames []string) string {
	sorted := append([]string(nil), labelNames...)
	sort.Strings(sorted)
	return name + "{" + strings.Join(sorted, ",") + "}"
}

func (mf *metricFamily) getCounter(name string, labelNames []string) *prometheus.CounterVec {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	if counter, ok := mf.counters[familyKey(name, labelNames)]; ok {
		return counter
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: "A counter",
	}, labelNames)
	mf.registry.MustRegister(counter)
	mf.counters[familyKey(name, labelNames)] = counter

	return counter
}

func (mf *metricFamily) getGauge(name string, labelNames []string) *prometheus.GaugeVec {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	if gauge, ok := mf.gauges[familyKey(name, labelNames)]; ok {
		return gauge
	}

	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: "A gauge",
	}, labelNames)
	mf.registry.MustRegister(gauge)
	mf.gauges[familyKey(name, labelNames)] = gauge

	return gauge
}

func (mf *metricFamily) getTiming(name string, labelNames []string) *prometheus.SummaryVec {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	if timing, ok := mf.timings[familyKey(name, labelNames)]; ok {
		return timing
	}

	timing := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       name,
		Help:       "A timing",
		Objectives: objectives,
	}, labelNames)
	mf.registry.MustRegister(timing)
	mf.timings[familyKey(name, labelNames)] = timing

	return timing
}

// Count is a counter with key/value tags:
// New values are added to any previous one (eg "number of hits")
func (r *Reporter) Count(name string, value int64, tags metrics.Tags) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPrometheusPanic
		}
	}()

	counter := r.metrics.getCounter(r.stripUnsupportedCharacters(name), r.listTagKeys(tags))
	metric, err := counter.GetMetricWith(r.convertTags(tags))
	if err != nil {
		return err
	}

	metric.Add(float64(value))
	return err
}

// Gauge is a register with key/value tags:
// New values simply override any previous one (eg "current connections")
func (r *Reporter) Gauge(name string, value float64, tags metrics.Tags) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPrometheusPanic
		}
	}()

	gauge := r.metrics.getGauge(r.stripUnsupportedCharacters(name), r.listTagKeys(tags))
	metric, err := gauge.GetMetricWith(r.convertTags(tags))
	if err != nil {
		return err
	}

	metric.Set(value)
	return err
}

// Timing is a histogram with key/valye tags:
// New values are added into a series of aggregations
func (r *Reporter) Timing(name string, value time.Duration, tags metrics.Tags) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPrometheusPanic
		}
	}()

	timing := r.metrics.getTiming(r.stripUnsupportedCharacters(name), r.listTagKeys(tags))
	metric, err := timing.GetMetricWith(r.convertTags(tags))
	if err != nil {
		return err
	}

	metric.Observe(value.Seconds())
	return err
}
