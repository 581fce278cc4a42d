// Package service defines the request processing contract every layer of the
// connect stack is built on, plus combinators that transform services
// without changing that contract.
package service

import (
	"context"
)

// Service processes one request at a time.
//
// Ready blocks until the service can accept a call, or returns the error that
// prevents it from ever doing so. A service that is temporarily saturated
// keeps the caller waiting rather than failing; callers give up through ctx.
// Callers are expected to observe readiness before Call, although
// implementations do not enforce it.
type Service[Req, Rsp any] interface {
	Ready(ctx context.Context) error
	Call(ctx context.Context, req Req) (Rsp, error)
}

// Func adapts a plain function into an always ready Service.
type Func[Req, Rsp any] func(ctx context.Context, req Req) (Rsp, error)

func (f Func[Req, Rsp]) Ready(ctx context.Context) error {
	return ctx.Err()
}

func (f Func[Req, Rsp]) Call(ctx context.Context, req Req) (Rsp, error) {
	return f(ctx, req)
}

// Factory asynchronously constructs services from a configuration value.
type Factory[Cfg, Req, Rsp any] interface {
	NewService(ctx context.Context, cfg Cfg) (Service[Req, Rsp], error)
}

// FactoryFunc adapts a function into a Factory.
type FactoryFunc[Cfg, Req, Rsp any] func(ctx context.Context, cfg Cfg) (Service[Req, Rsp], error)

func (f FactoryFunc[Cfg, Req, Rsp]) NewService(ctx context.Context, cfg Cfg) (Service[Req, Rsp], error) {
	return f(ctx, cfg)
}

// Wrapper wraps a service and returns a service of the same shape.
type Wrapper[Req, Rsp any] func(Service[Req, Rsp]) Service[Req, Rsp]

// Wrap applies wrappers in order, the last one ending up outermost.
func Wrap[Req, Rsp any](s Service[Req, Rsp], wrappers ...Wrapper[Req, Rsp]) Service[Req, Rsp] {
	for _, w := range wrappers {
		s = w(s)
	}
	return s
}
