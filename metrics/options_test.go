package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	options := NewOptions()
	assert.Empty(t, options.Address)
	assert.Equal(t, DefaultPath, options.Path)
	assert.Empty(t, options.DefaultTags)

	options = NewOptions(
		Address(":9999"),
		DefaultTags(Tags{"host": "edge-1"}),
		Path("/prometheus"),
	)
	assert.Equal(t, ":9999", options.Address)
	assert.Equal(t, "edge-1", options.DefaultTags["host"])
	assert.Equal(t, "/prometheus", options.Path)
}

func TestTagsMerge(t *testing.T) {
	base := Tags{"service": "connect", "result": "dialed"}
	merged := base.Merge(Tags{"result": "reused"})

	assert.Equal(t, Tags{"service": "connect", "result": "reused"}, merged)
	assert.Equal(t, "dialed", base["result"])
}
