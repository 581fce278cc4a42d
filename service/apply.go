package service

import "context"

// ApplyFunc receives the request and the wrapped service and decides how to
// drive it.
type ApplyFunc[In, Out, Req, Rsp any] func(ctx context.Context, req In, s Service[Req, Rsp]) (Out, error)

type apply[In, Out, Req, Rsp any] struct {
	s Service[Req, Rsp]
	f ApplyFunc[In, Out, Req, Rsp]
}

// Apply adapts s to a new request and response type through f. Readiness is
// the readiness of s.
func Apply[In, Out, Req, Rsp any](s Service[Req, Rsp], f ApplyFunc[In, Out, Req, Rsp]) Service[In, Out] {
	return &apply[In, Out, Req, Rsp]{s: s, f: f}
}

func (a *apply[In, Out, Req, Rsp]) Ready(ctx context.Context) error {
	return a.s.Ready(ctx)
}

func (a *apply[In, Out, Req, Rsp]) Call(ctx context.Context, req In) (Out, error) {
	return a.f(ctx, req, a.s)
}

type applyFactory[Cfg, In, Out, Req, Rsp any] struct {
	f  Factory[Cfg, Req, Rsp]
	fn ApplyFunc[In, Out, Req, Rsp]
}

// ApplyFactory wraps every service produced by f with Apply(fn).
func ApplyFactory[Cfg, In, Out, Req, Rsp any](f Factory[Cfg, Req, Rsp], fn ApplyFunc[In, Out, Req, Rsp]) Factory[Cfg, In, Out] {
	return &applyFactory[Cfg, In, Out, Req, Rsp]{f: f, fn: fn}
}

func (a *applyFactory[Cfg, In, Out, Req, Rsp]) NewService(ctx context.Context, cfg Cfg) (Service[In, Out], error) {
	s, err := a.f.NewService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Apply(s, a.fn), nil
}
