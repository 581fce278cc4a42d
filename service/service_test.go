package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// gate is a service whose readiness is controlled by the test.
type gate struct {
	open chan struct{}
	err  error
}

func (g *gate) Ready(ctx context.Context) error {
	select {
	case <-g.open:
		return g.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gate) Call(ctx context.Context, req int) (int, error) {
	return req, nil
}

func double(ctx context.Context, req int) (int, error) {
	return req * 2, nil
}

func fail(ctx context.Context, req int) (int, error) {
	return 0, errBoom
}

func TestFunc(t *testing.T) {
	s := Func[int, int](double)
	ctx := context.Background()

	require.NoError(t, s.Ready(ctx))
	rsp, err := s.Call(ctx, 21)
	require.NoError(t, err)
	assert.Equal(t, 42, rsp)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Ready(cctx), context.Canceled)
}

func TestMap(t *testing.T) {
	s := Map(Service[int, int](Func[int, int](double)), strconv.Itoa)

	rsp, err := s.Call(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "8", rsp)

	s = Map(Service[int, int](Func[int, int](fail)), strconv.Itoa)
	_, err = s.Call(context.Background(), 4)
	assert.ErrorIs(t, err, errBoom)
}

func TestMapErr(t *testing.T) {
	wrap := func(err error) error {
		return &Error{Err: err}
	}

	s := MapErr(Service[int, int](Func[int, int](fail)), wrap)
	_, err := s.Call(context.Background(), 1)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.ErrorIs(t, err, errBoom)

	g := &gate{open: make(chan struct{}), err: errBoom}
	close(g.open)
	err = MapErr(Service[int, int](g), wrap).Ready(context.Background())
	assert.ErrorAs(t, err, &e)

	// caller cancellation is not rewritten
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g = &gate{open: make(chan struct{})}
	err = MapErr(Service[int, int](g), wrap).Ready(ctx)
	assert.Equal(t, context.Canceled, err)
}

func TestAndThen(t *testing.T) {
	first := &gate{open: make(chan struct{})}
	s := AndThen(Service[int, int](first), Service[int, int](Func[int, int](double)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Ready(ctx), context.Canceled)

	close(first.open)
	require.NoError(t, s.Ready(context.Background()))

	rsp, err := s.Call(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 10, rsp)

	s = AndThen(Service[int, int](Func[int, int](fail)), Service[int, int](Func[int, int](double)))
	_, err = s.Call(context.Background(), 5)
	assert.ErrorIs(t, err, errBoom)
}

func TestApply(t *testing.T) {
	s := Apply[string, string, int, int](Service[int, int](Func[int, int](double)), func(ctx context.Context, req string, s Service[int, int]) (string, error) {
		n, err := strconv.Atoi(req)
		if err != nil {
			return "", err
		}
		rsp, err := s.Call(ctx, n)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(rsp), nil
	})

	rsp, err := s.Call(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "14", rsp)

	_, err = s.Call(context.Background(), "seven")
	assert.Error(t, err)
}

func TestFactories(t *testing.T) {
	f := FactoryFunc[int, int, int](func(ctx context.Context, factor int) (Service[int, int], error) {
		return Func[int, int](func(ctx context.Context, req int) (int, error) {
			return req * factor, nil
		}), nil
	})

	mapped := MapFactory[int, int, int, string](f, strconv.Itoa)
	s, err := mapped.NewService(context.Background(), 3)
	require.NoError(t, err)

	rsp, err := s.Call(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "15", rsp)

	applied := ApplyFactory[int, int, int, int, int](f, func(ctx context.Context, req int, s Service[int, int]) (int, error) {
		rsp, err := s.Call(ctx, req)
		return rsp + 1, err
	})
	s2, err := applied.NewService(context.Background(), 10)
	require.NoError(t, err)

	n, err := s2.Call(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 21, n)
}

func TestWrap(t *testing.T) {
	var order []string
	named := func(name string) Wrapper[int, int] {
		return func(s Service[int, int]) Service[int, int] {
			return Func[int, int](func(ctx context.Context, req int) (int, error) {
				order = append(order, name)
				return s.Call(ctx, req)
			})
		}
	}

	s := Wrap(Service[int, int](Func[int, int](double)), named("inner"), named("outer"))
	rsp, err := s.Call(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, rsp)
	assert.Equal(t, []string{"outer", "inner"}, order)
}
