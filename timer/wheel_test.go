package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	testData := []struct {
		elapsed uint64
		when    uint64
		level   int
	}{
		{0, 1, 0},
		{0, 63, 0},
		{0, 64, 1},
		{0, 4095, 1},
		{0, 4096, 2},
		{63, 64, 1},
		{64, 100, 0},
		{0, 1 << 30, 5},
		{0, maxDuration + 10, 5},
	}

	for _, d := range testData {
		assert.Equal(t, d.level, levelFor(d.elapsed, d.when), "elapsed %d when %d", d.elapsed, d.when)
	}
}

func TestWheelPollOrder(t *testing.T) {
	w := newWheel()

	ticks := []uint64{5, 70, 3, 5000, 64, 300000}
	entries := make(map[uint64]*Entry)
	for _, tick := range ticks {
		e := &Entry{when: tick}
		entries[tick] = e
		require.True(t, w.insert(e))
	}

	for _, tick := range []uint64{3, 5, 64, 70, 5000, 300000} {
		assert.Empty(t, w.poll(tick-1), "tick %d fired early", tick)

		fired := w.poll(tick)
		require.Len(t, fired, 1, "tick %d", tick)
		assert.Same(t, entries[tick], fired[0])
	}

	_, ok := w.nextExpiration()
	assert.False(t, ok)
}

func TestWheelRemove(t *testing.T) {
	w := newWheel()

	a := &Entry{when: 10}
	b := &Entry{when: 10}
	require.True(t, w.insert(a))
	require.True(t, w.insert(b))

	w.remove(a)
	assert.False(t, a.slotted)
	// removing twice is harmless
	w.remove(a)

	fired := w.poll(10)
	require.Len(t, fired, 1)
	assert.Same(t, b, fired[0])
}

func TestWheelInsertElapsed(t *testing.T) {
	w := newWheel()
	w.poll(100)

	assert.False(t, w.insert(&Entry{when: 100}))
	assert.False(t, w.insert(&Entry{when: 50}))
	assert.True(t, w.insert(&Entry{when: 101}))
}

func TestWheelNextExpiration(t *testing.T) {
	w := newWheel()
	require.True(t, w.insert(&Entry{when: 200}))

	exp, ok := w.nextExpiration()
	require.True(t, ok)
	// 200 sits in the level 1 slot starting at 192
	assert.Equal(t, 1, exp.level)
	assert.Equal(t, uint64(192), exp.deadline)

	// cascading to level 0 does not fire the entry early
	assert.Empty(t, w.poll(192))

	exp, ok = w.nextExpiration()
	require.True(t, ok)
	assert.Equal(t, 0, exp.level)
	assert.Equal(t, uint64(200), exp.deadline)
}

func TestWheelDrain(t *testing.T) {
	w := newWheel()
	for _, tick := range []uint64{1, 100, 10000, 1 << 20} {
		require.True(t, w.insert(&Entry{when: tick}))
	}

	assert.Len(t, w.drain(), 4)

	_, ok := w.nextExpiration()
	assert.False(t, ok)
}
