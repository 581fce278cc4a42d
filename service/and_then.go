package service

import "context"

type andThen[Req, Mid, Rsp any] struct {
	first  Service[Req, Mid]
	second Service[Mid, Rsp]
}

// AndThen pipes the response of first into second. The pipeline is ready
// once both stages are.
func AndThen[Req, Mid, Rsp any](first Service[Req, Mid], second Service[Mid, Rsp]) Service[Req, Rsp] {
	return &andThen[Req, Mid, Rsp]{first: first, second: second}
}

func (a *andThen[Req, Mid, Rsp]) Ready(ctx context.Context) error {
	if err := a.first.Ready(ctx); err != nil {
		return err
	}
	return a.second.Ready(ctx)
}

func (a *andThen[Req, Mid, Rsp]) Call(ctx context.Context, req Req) (Rsp, error) {
	mid, err := a.first.Call(ctx, req)
	if err != nil {
		var zero Rsp
		return zero, err
	}
	return a.second.Call(ctx, mid)
}
