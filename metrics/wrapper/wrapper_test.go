package wrapper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/micro/go-connect/metrics"
	"github.com/micro/go-connect/service"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	sync.Mutex
	timings []metrics.Tags
}

func (r *recorder) Count(string, int64, metrics.Tags) error   { return nil }
func (r *recorder) Gauge(string, float64, metrics.Tags) error { return nil }
func (r *recorder) Timing(name string, value time.Duration, tags metrics.Tags) error {
	r.Lock()
	defer r.Unlock()
	r.timings = append(r.timings, tags)
	return nil
}

func TestServiceWrapper(t *testing.T) {
	rec := new(recorder)
	wrap := Service[int, int](rec, "test.call", metrics.Tags{"scheme": "tcp"})

	ok := wrap(service.Func[int, int](func(ctx context.Context, req int) (int, error) {
		return req, nil
	}))
	bad := wrap(service.Func[int, int](func(ctx context.Context, req int) (int, error) {
		return 0, errors.New("boom")
	}))

	_, err := ok.Call(context.Background(), 1)
	assert.NoError(t, err)
	_, err = bad.Call(context.Background(), 1)
	assert.Error(t, err)

	assert.Equal(t, []metrics.Tags{
		{"scheme": "tcp", "result": "success"},
		{"scheme": "tcp", "result": "failure"},
	}, rec.timings)
}
