// Package wrapper instruments services with a metrics.Reporter
package wrapper

import (
	"context"
	"time"

	"github.com/micro/go-connect/metrics"
	"github.com/micro/go-connect/service"
)

// Service returns a service.Wrapper timing every call under name:
func Service[Req, Rsp any](reporter metrics.Reporter, name string, tags metrics.Tags) service.Wrapper[Req, Rsp] {
	return func(s service.Service[Req, Rsp]) service.Service[Req, Rsp] {
		return &timed[Req, Rsp]{
			s:        s,
			name:     name,
			tags:     tags,
			reporter: reporter,
		}
	}
}

type timed[Req, Rsp any] struct {
	s        service.Service[Req, Rsp]
	name     string
	tags     metrics.Tags
	reporter metrics.Reporter
}

func (t *timed[Req, Rsp]) Ready(ctx context.Context) error {
	return t.s.Ready(ctx)
}

func (t *timed[Req, Rsp]) Call(ctx context.Context, req Req) (Rsp, error) {
	// Start the clock:
	callTime := time.Now()

	rsp, err := t.s.Call(ctx, req)

	// Add a result tag:
	tags := t.tags.Merge(nil)
	if err != nil {
		tags["result"] = "failure"
	} else {
		tags["result"] = "success"
	}

	t.reporter.Timing(t.name, time.Since(callTime), tags)

	return rsp, err
}
