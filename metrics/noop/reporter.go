// Package noop drops every metric.
package noop

import (
	"time"

	"github.com/micro/go-connect/metrics"
)

type Reporter struct{}

func New() *Reporter {
	return new(Reporter)
}

func (r *Reporter) Count(string, int64, metrics.Tags) error {
	return nil
}

func (r *Reporter) Gauge(string, float64, metrics.Tags) error {
	return nil
}

func (r *Reporter) Timing(string, time.Duration, metrics.Tags) error {
	return nil
}
