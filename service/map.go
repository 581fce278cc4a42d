package service

import "context"

type mapService[Req, A, B any] struct {
	s Service[Req, A]
	f func(A) B
}

// Map transforms the response of s with f.
func Map[Req, A, B any](s Service[Req, A], f func(A) B) Service[Req, B] {
	return &mapService[Req, A, B]{s: s, f: f}
}

func (m *mapService[Req, A, B]) Ready(ctx context.Context) error {
	return m.s.Ready(ctx)
}

func (m *mapService[Req, A, B]) Call(ctx context.Context, req Req) (B, error) {
	rsp, err := m.s.Call(ctx, req)
	if err != nil {
		var zero B
		return zero, err
	}
	return m.f(rsp), nil
}

type mapErrService[Req, Rsp any] struct {
	s Service[Req, Rsp]
	f func(error) error
}

// MapErr transforms every error s returns, including readiness errors.
// Context errors produced by the caller giving up are passed through.
func MapErr[Req, Rsp any](s Service[Req, Rsp], f func(error) error) Service[Req, Rsp] {
	return &mapErrService[Req, Rsp]{s: s, f: f}
}

func (m *mapErrService[Req, Rsp]) Ready(ctx context.Context) error {
	if err := m.s.Ready(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return m.f(err)
	}
	return nil
}

func (m *mapErrService[Req, Rsp]) Call(ctx context.Context, req Req) (Rsp, error) {
	rsp, err := m.s.Call(ctx, req)
	if err != nil {
		return rsp, m.f(err)
	}
	return rsp, nil
}

type mapFactory[Cfg, Req, A, B any] struct {
	f  Factory[Cfg, Req, A]
	fn func(A) B
}

// MapFactory maps the response of every service f produces.
func MapFactory[Cfg, Req, A, B any](f Factory[Cfg, Req, A], fn func(A) B) Factory[Cfg, Req, B] {
	return &mapFactory[Cfg, Req, A, B]{f: f, fn: fn}
}

func (m *mapFactory[Cfg, Req, A, B]) NewService(ctx context.Context, cfg Cfg) (Service[Req, B], error) {
	s, err := m.f.NewService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Map(s, m.fn), nil
}
