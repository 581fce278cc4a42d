// Package logging reports metrics as log lines
package logging

import (
	"time"

	"github.com/micro/go-connect/logger"
	"github.com/micro/go-connect/metrics"
)

const defaultLevel = logger.DebugLevel

// Reporter is an implementation of metrics.Reporter:
type Reporter struct {
	options metrics.Options
	logger  logger.Logger
}

// New returns a configured logging reporter:
func New(opts ...metrics.Option) *Reporter {
	return &Reporter{
		options: metrics.NewOptions(opts...),
		logger:  logger.DefaultLogger,
	}
}

// WithLogger returns a copy of the reporter writing to l:
func (r *Reporter) WithLogger(l logger.Logger) *Reporter {
	return &Reporter{options: r.options, logger: l}
}

// Count implements the metrics.Reporter interface Count method:
func (r *Reporter) Count(metricName string, value int64, tags metrics.Tags) error {
	r.logger.Fields(r.fields(tags)).Logf(defaultLevel, "Count metric: %s %d", metricName, value)
	return nil
}

// Gauge implements the metrics.Reporter interface Gauge method:
func (r *Reporter) Gauge(metricName string, value float64, tags metrics.Tags) error {
	r.logger.Fields(r.fields(tags)).Logf(defaultLevel, "Gauge metric: %s %g", metricName, value)
	return nil
}

// Timing implements the metrics.Reporter interface Timing method:
func (r *Reporter) Timing(metricName string, value time.Duration, tags metrics.Tags) error {
	r.logger.Fields(r.fields(tags)).Logf(defaultLevel, "Timing metric: %s %s", metricName, value)
	return nil
}

func (r *Reporter) fields(tags metrics.Tags) map[string]interface{} {
	return convertTags(r.options.DefaultTags.Merge(tags))
}

// convertTags turns Tags into logger fields:
func convertTags(tags metrics.Tags) map[string]interface{} {
	fields := make(map[string]interface{}, len(tags))
	for key, value := range tags {
		fields[key] = value
	}
	return fields
}
