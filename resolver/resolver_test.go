package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	calls   atomic.Int32
	release chan struct{}
}

func (c *countingResolver) Resolve(ctx context.Context, name string) ([]*Record, error) {
	c.calls.Add(1)
	<-c.release
	return []*Record{{Address: name}}, nil
}

func TestSystemLiteral(t *testing.T) {
	s := &System{}

	records, err := s.Resolve(context.Background(), "127.0.0.1:8080")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "127.0.0.1:8080", records[0].Address)

	_, err = s.Resolve(context.Background(), "no-port")
	assert.Error(t, err)
}

func TestSystemLocalhost(t *testing.T) {
	records, err := (&System{}).Resolve(context.Background(), "localhost:80")
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for _, r := range records {
		assert.Contains(t, []string{"127.0.0.1:80", "[::1]:80"}, r.Address)
	}
}

func TestSingleflight(t *testing.T) {
	inner := &countingResolver{release: make(chan struct{})}
	s := NewSingleflight(inner)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := s.Resolve(context.Background(), "example.com:443")
			assert.NoError(t, err)
			assert.Len(t, records, 1)
		}()
	}

	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)
	// give the other callers time to join the flight
	time.Sleep(20 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestSingleflightCallerCancel(t *testing.T) {
	inner := &countingResolver{release: make(chan struct{})}
	s := NewSingleflight(inner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Resolve(ctx, "example.com:443")
	assert.ErrorIs(t, err, context.Canceled)

	close(inner.release)
}
