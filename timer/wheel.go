package timer

import "math/bits"

const (
	numLevels     = 6
	levelBits     = 6
	slotsPerLevel = 1 << levelBits
	slotMask      = slotsPerLevel - 1

	// maxDuration is the furthest ahead, in ticks, the wheel can place an entry
	// without wrapping the top level.
	maxDuration uint64 = 1<<(levelBits*numLevels) - 1
)

// wheel buckets entries by tick. Level n slots each span 64^n ticks; an entry
// lives on the level of the most significant bit in which its deadline differs
// from the current elapsed tick and cascades down as higher slots expire.
type wheel struct {
	elapsed uint64
	levels  [numLevels]*level
}

type level struct {
	index    int
	occupied uint64
	slots    [slotsPerLevel]map[*Entry]struct{}
}

type expiration struct {
	level    int
	slot     int
	deadline uint64
}

func newWheel() *wheel {
	w := &wheel{}
	for i := range w.levels {
		w.levels[i] = &level{index: i}
	}
	return w
}

// insert places e by its when tick. It returns false when the tick has already
// elapsed, in which case the caller fires the entry.
func (w *wheel) insert(e *Entry) bool {
	if e.when <= w.elapsed {
		return false
	}
	lvl := levelFor(w.elapsed, e.when)
	w.levels[lvl].add(e, slotFor(e.when, lvl))
	return true
}

func (w *wheel) remove(e *Entry) {
	if !e.slotted {
		return
	}
	w.levels[e.level].remove(e)
}

// poll advances the wheel to now and returns every entry whose tick elapsed.
func (w *wheel) poll(now uint64) []*Entry {
	var fired []*Entry

	for {
		exp, ok := w.nextExpiration()
		if !ok || exp.deadline > now {
			break
		}

		if exp.deadline > w.elapsed {
			w.elapsed = exp.deadline
		}

		for e := range w.levels[exp.level].take(exp.slot) {
			if !w.insert(e) {
				fired = append(fired, e)
			}
		}
	}

	if now > w.elapsed {
		w.elapsed = now
	}

	return fired
}

// nextExpiration returns the earliest slot holding entries. Lower levels
// always expire before higher ones.
func (w *wheel) nextExpiration() (expiration, bool) {
	for _, l := range w.levels {
		if exp, ok := l.nextExpiration(w.elapsed); ok {
			return exp, true
		}
	}
	return expiration{}, false
}

// drain empties the wheel.
func (w *wheel) drain() []*Entry {
	var all []*Entry
	for _, l := range w.levels {
		for l.occupied != 0 {
			slot := bits.TrailingZeros64(l.occupied)
			for e := range l.take(slot) {
				all = append(all, e)
			}
		}
	}
	return all
}

func (l *level) add(e *Entry, slot int) {
	if l.slots[slot] == nil {
		l.slots[slot] = make(map[*Entry]struct{})
	}
	l.slots[slot][e] = struct{}{}
	l.occupied |= 1 << uint(slot)

	e.level = l.index
	e.slot = slot
	e.slotted = true
}

func (l *level) remove(e *Entry) {
	entries := l.slots[e.slot]
	delete(entries, e)
	if len(entries) == 0 {
		l.occupied &^= 1 << uint(e.slot)
	}
	e.slotted = false
}

func (l *level) take(slot int) map[*Entry]struct{} {
	entries := l.slots[slot]
	l.slots[slot] = nil
	l.occupied &^= 1 << uint(slot)
	for e := range entries {
		e.slotted = false
	}
	return entries
}

func (l *level) nextExpiration(now uint64) (expiration, bool) {
	slot, ok := l.nextOccupiedSlot(now)
	if !ok {
		return expiration{}, false
	}

	lr := levelRange(l.index)
	sr := slotRange(l.index)

	start := now &^ (lr - 1)
	deadline := start + uint64(slot)*sr

	// only the top level can hold a slot behind now, for entries clamped
	// to maxDuration
	if deadline <= now {
		deadline += lr
	}

	return expiration{level: l.index, slot: slot, deadline: deadline}, true
}

func (l *level) nextOccupiedSlot(now uint64) (int, bool) {
	if l.occupied == 0 {
		return 0, false
	}

	nowSlot := int((now / slotRange(l.index)) % slotsPerLevel)
	occupied := bits.RotateLeft64(l.occupied, -nowSlot)
	zeros := bits.TrailingZeros64(occupied)

	return (zeros + nowSlot) % slotsPerLevel, true
}

func levelFor(elapsed, when uint64) int {
	masked := elapsed ^ when | slotMask
	if masked >= maxDuration {
		masked = maxDuration - 1
	}
	significant := 63 - bits.LeadingZeros64(masked)
	return significant / levelBits
}

func slotFor(when uint64, lvl int) int {
	return int((when >> (uint(lvl) * levelBits)) & slotMask)
}

func slotRange(lvl int) uint64 {
	return 1 << (uint(lvl) * levelBits)
}

func levelRange(lvl int) uint64 {
	return 1 << (uint(lvl+1) * levelBits)
}
