// Package pool keeps established connections per authority for reuse and
// caps how many may exist at once.
package pool

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/micro/go-connect/logger"
	"github.com/micro/go-connect/metrics"
	"github.com/micro/go-connect/service"
	"github.com/micro/go-connect/transport"
)

const logLevel = logger.DebugLevel

// Pool is a service handing out connections made by the wrapped connect
// service, reusing idle ones where it can.
//
// When an authority is at its limit, Call waits for a connection to be
// released or discarded. Exhaustion never fails a call; only ctx ends the
// wait.
type Pool struct {
	opts    Options
	connect service.Service[transport.Request, transport.Stream]

	mu          sync.Mutex
	closed      bool
	idle        map[Key][]*idleConn
	outstanding map[Key]int
	waiters     map[Key]*list.List
}

// Stats is a snapshot of one authority.
type Stats struct {
	Idle        int
	Outstanding int
	Waiting     int
}

// New returns a pool over connect.
func New(connect service.Service[transport.Request, transport.Stream], opts ...Option) *Pool {
	return &Pool{
		opts:        newOptions(opts...),
		connect:     connect,
		idle:        make(map[Key][]*idleConn),
		outstanding: make(map[Key]int),
		waiters:     make(map[Key]*list.List),
	}
}

func (p *Pool) Options() Options {
	return p.opts
}

// Ready is the readiness of the connect service.
func (p *Pool) Ready(ctx context.Context) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return transport.ErrDisconnected
	}
	return p.connect.Ready(ctx)
}

// ReadyFor blocks until req could be served without waiting: an idle
// connection or spare capacity exists for its authority. Nothing is
// reserved, so a later Call may still wait. A wake-up taken from the
// waiter queue is passed on, as ReadyFor consumes nothing.
func (p *Pool) ReadyFor(ctx context.Context, req transport.Request) error {
	key, err := KeyOf(req)
	if err != nil {
		return err
	}

	woken := false
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return transport.ErrDisconnected
		}

		evicted := p.evictLocked(key)
		if len(p.idle[key]) > 0 || p.hasCapacityLocked(key) {
			if woken {
				p.signalLocked(key)
			}
			p.mu.Unlock()
			p.retire(evicted)
			return p.connect.Ready(ctx)
		}

		elem, ch := p.enqueueLocked(key)
		p.mu.Unlock()
		p.retire(evicted)

		if err := p.wait(ctx, key, elem, ch); err != nil {
			return err
		}
		woken = true
	}
}

// Call checks out a connection for req.
func (p *Pool) Call(ctx context.Context, req transport.Request) (*Conn, error) {
	key, err := KeyOf(req)
	if err != nil {
		return nil, err
	}

	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, transport.ErrDisconnected
		}

		evicted := p.evictLocked(key)

		if ic := p.popLocked(key); ic != nil {
			p.mu.Unlock()
			p.retire(evicted)
			p.opts.Logger.Logf(logLevel, "[pool] %s reusing %s", key, ic.id)
			p.count("pool.checkout", key, metrics.Tags{"result": "reused"})
			return p.checkout(ic), nil
		}

		if p.hasCapacityLocked(key) {
			p.outstanding[key]++
			outstanding := p.outstanding[key]
			p.mu.Unlock()
			p.retire(evicted)
			p.gauge(key, outstanding)
			return p.dial(ctx, key, req)
		}

		elem, ch := p.enqueueLocked(key)
		p.mu.Unlock()
		p.retire(evicted)

		if err := p.wait(ctx, key, elem, ch); err != nil {
			return nil, err
		}
	}
}

func (p *Pool) dial(ctx context.Context, key Key, req transport.Request) (*Conn, error) {
	start := time.Now()
	stream, err := p.connect.Call(ctx, req)
	p.opts.Metrics.Timing("pool.connect", time.Since(start), p.tags(key, nil))

	if err != nil {
		p.release(key)
		p.opts.Logger.Logf(logLevel, "[pool] %s connect failed: %v", key, err)
		p.count("pool.checkout", key, metrics.Tags{"result": "failed"})
		return nil, err
	}

	now := p.opts.Clock.Now()
	ic := &idleConn{
		Conn:     stream.Conn,
		id:       uuid.New().String(),
		key:      key,
		protocol: stream.Protocol,
		created:  now,
		lastUsed: now,
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		p.release(key)
		go p.disconnect(ic)
		return nil, transport.ErrDisconnected
	}

	p.opts.Logger.Logf(logLevel, "[pool] %s connected %s over %s", key, ic.id, ic.protocol)
	p.count("pool.checkout", key, metrics.Tags{"result": "dialed"})

	return p.checkout(ic), nil
}

// put returns ic to the idle list.
func (p *Pool) put(ic *idleConn) {
	p.mu.Lock()

	now := p.opts.Clock.Now()
	switch {
	case p.closed, ic.broken.Load():
		p.mu.Unlock()
		p.discard(ic, "unusable")
		return
	case p.expired(p.opts.Lifetime, ic.created, now):
		p.mu.Unlock()
		p.discard(ic, "lifetime")
		return
	}

	ic.lastUsed = now
	p.idle[ic.key] = append(p.idle[ic.key], ic)
	p.signalLocked(ic.key)
	p.mu.Unlock()
}

// discard gives up the slot of ic and closes it in the background.
func (p *Pool) discard(ic *idleConn, reason string) {
	p.release(ic.key)
	p.opts.Logger.Logf(logLevel, "[pool] %s discarding %s: %s", ic.key, ic.id, reason)

	go func() {
		if err := p.disconnect(ic); err != nil {
			p.opts.Logger.Logf(logLevel, "[pool] %s closing %s: %v", ic.key, ic.id, err)
		}
	}()
}

// release frees one outstanding slot of key and wakes a waiter.
func (p *Pool) release(key Key) {
	p.mu.Lock()
	p.releaseLocked(key, 1)
	outstanding := p.outstanding[key]
	p.mu.Unlock()

	p.gauge(key, outstanding)
}

func (p *Pool) releaseLocked(key Key, n int) {
	if p.outstanding[key] <= n {
		delete(p.outstanding, key)
	} else {
		p.outstanding[key] -= n
	}
	for i := 0; i < n; i++ {
		p.signalLocked(key)
	}
}

func (p *Pool) hasCapacityLocked(key Key) bool {
	return p.opts.Limit <= 0 || p.outstanding[key] < p.opts.Limit
}

// popLocked takes the most recently released idle connection.
func (p *Pool) popLocked(key Key) *idleConn {
	conns := p.idle[key]
	if len(conns) == 0 {
		return nil
	}

	ic := conns[len(conns)-1]
	conns[len(conns)-1] = nil
	if len(conns) == 1 {
		delete(p.idle, key)
	} else {
		p.idle[key] = conns[:len(conns)-1]
	}

	return ic
}

type eviction struct {
	conn   *idleConn
	reason string
}

// evictLocked removes the idle connections of key that may no longer be
// reused and frees their slots. The caller closes them via retire once the
// lock is released.
func (p *Pool) evictLocked(key Key) []eviction {
	conns := p.idle[key]
	if len(conns) == 0 {
		return nil
	}

	now := p.opts.Clock.Now()

	var evicted []eviction
	kept := conns[:0]

	for _, c := range conns {
		switch {
		case p.expired(p.opts.Lifetime, c.created, now):
			evicted = append(evicted, eviction{c, "lifetime"})
		case p.expired(p.opts.KeepAlive, c.lastUsed, now):
			evicted = append(evicted, eviction{c, "keepalive"})
		default:
			kept = append(kept, c)
		}
	}

	if len(evicted) == 0 {
		return nil
	}

	for i := len(kept); i < len(conns); i++ {
		conns[i] = nil
	}
	if len(kept) == 0 {
		delete(p.idle, key)
	} else {
		p.idle[key] = kept
	}

	p.releaseLocked(key, len(evicted))

	return evicted
}

func (p *Pool) retire(evicted []eviction) {
	for _, e := range evicted {
		ic := e.conn
		p.opts.Logger.Logf(logLevel, "[pool] %s evicting %s: %s", ic.key, ic.id, e.reason)
		p.count("pool.evicted", ic.key, metrics.Tags{"reason": e.reason})

		go func() {
			if err := p.disconnect(ic); err != nil {
				p.opts.Logger.Logf(logLevel, "[pool] %s closing %s: %v", ic.key, ic.id, err)
			}
		}()
	}

	if len(evicted) > 0 {
		key := evicted[0].conn.key
		p.mu.Lock()
		outstanding := p.outstanding[key]
		p.mu.Unlock()
		p.gauge(key, outstanding)
	}
}

func (p *Pool) expired(limit time.Duration, since, now time.Time) bool {
	return limit > 0 && now.Sub(since) >= limit
}

func (p *Pool) enqueueLocked(key Key) (*list.Element, chan struct{}) {
	q, ok := p.waiters[key]
	if !ok {
		q = list.New()
		p.waiters[key] = q
	}

	ch := make(chan struct{}, 1)
	return q.PushBack(ch), ch
}

// signalLocked wakes the longest waiting caller of key.
func (p *Pool) signalLocked(key Key) {
	q, ok := p.waiters[key]
	if !ok {
		return
	}

	elem := q.Front()
	q.Remove(elem)
	if q.Len() == 0 {
		delete(p.waiters, key)
	}

	elem.Value.(chan struct{}) <- struct{}{}
}

// wait parks until signalled or ctx is done. A caller that gives up after
// being signalled passes the signal on.
func (p *Pool) wait(ctx context.Context, key Key, elem *list.Element, ch chan struct{}) error {
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case <-ch:
		p.signalLocked(key)
	default:
		if q, ok := p.waiters[key]; ok {
			q.Remove(elem)
			if q.Len() == 0 {
				delete(p.waiters, key)
			}
		}
	}

	return ctx.Err()
}

// Stats returns the counters of key.
func (p *Pool) Stats(key Key) Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		Idle:        len(p.idle[key]),
		Outstanding: p.outstanding[key],
	}
	if q, ok := p.waiters[key]; ok {
		s.Waiting = q.Len()
	}

	return s
}

// CloseIdle closes every idle connection.
func (p *Pool) CloseIdle() error {
	p.mu.Lock()
	conns := p.takeIdleLocked()
	p.mu.Unlock()

	return p.closeAll(conns)
}

// Close closes the idle connections and fails every later call with a
// Disconnected error. Checked out connections stay with their holders and
// are closed when released.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true

	conns := p.takeIdleLocked()

	for key, q := range p.waiters {
		for elem := q.Front(); elem != nil; elem = elem.Next() {
			elem.Value.(chan struct{}) <- struct{}{}
		}
		delete(p.waiters, key)
	}
	p.mu.Unlock()

	return p.closeAll(conns)
}

func (p *Pool) takeIdleLocked() []*idleConn {
	var conns []*idleConn
	for key, idle := range p.idle {
		conns = append(conns, idle...)
		delete(p.idle, key)
		p.releaseLocked(key, len(idle))
	}
	return conns
}

func (p *Pool) closeAll(conns []*idleConn) error {
	var merr *multierror.Error

	for _, c := range conns {
		if err := p.disconnect(c); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	reported := make(map[Key]bool)
	for _, c := range conns {
		if reported[c.key] {
			continue
		}
		reported[c.key] = true

		p.mu.Lock()
		outstanding := p.outstanding[c.key]
		p.mu.Unlock()
		p.gauge(c.key, outstanding)
	}

	return merr.ErrorOrNil()
}

func (p *Pool) tags(key Key, extra metrics.Tags) metrics.Tags {
	tags := metrics.Tags{"authority": key.String()}
	if len(p.opts.Name) > 0 {
		tags["pool"] = p.opts.Name
	}
	return tags.Merge(extra)
}

func (p *Pool) count(name string, key Key, extra metrics.Tags) {
	p.opts.Metrics.Count(name, 1, p.tags(key, extra))
}

func (p *Pool) gauge(key Key, outstanding int) {
	p.opts.Metrics.Gauge("pool.outstanding", float64(outstanding), p.tags(key, nil))
}
