// Package metrics is the reporting surface the connection pool and the
// connector emit through.
package metrics

import "time"

// Tags is a map of fields to add to a metric:
type Tags map[string]string

// Reporter is the standard metrics interface:
type Reporter interface {
	Count(metricName string, value int64, tags Tags) error
	Gauge(metricName string, value float64, tags Tags) error
	Timing(metricName string, value time.Duration, tags Tags) error
}

// Merge returns a copy of t with every tag of other set on top:
func (t Tags) Merge(other Tags) Tags {
	merged := make(Tags, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
