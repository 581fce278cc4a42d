package resolver

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Singleflight collapses concurrent lookups of the same name into one.
type Singleflight struct {
	r     Resolver
	group singleflight.Group
}

func NewSingleflight(r Resolver) *Singleflight {
	return &Singleflight{r: r}
}

func (s *Singleflight) Resolve(ctx context.Context, name string) ([]*Record, error) {
	// the shared lookup must not die with whichever caller started it
	lookupCtx := context.WithoutCancel(ctx)

	ch := s.group.DoChan(name, func() (interface{}, error) {
		return s.r.Resolve(lookupCtx, name)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*Record), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
