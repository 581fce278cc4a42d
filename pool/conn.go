package pool

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/micro/go-connect/transport"
)

// idleConn is the pooled record of one socket. It outlives the checkouts
// made over it.
type idleConn struct {
	net.Conn

	id       string
	key      Key
	protocol transport.Protocol
	created  time.Time
	// guarded by pool.mu
	lastUsed time.Time

	broken atomic.Bool
}

// Conn is one checkout of a pooled connection, exclusively owned by whoever
// checked it out until Release or Close. A later checkout of the same
// socket gets a new Conn; this one stays spent.
type Conn struct {
	net.Conn

	ic   *idleConn
	pool *Pool
	done atomic.Bool
}

func (p *Pool) checkout(ic *idleConn) *Conn {
	return &Conn{Conn: ic.Conn, ic: ic, pool: p}
}

// unique id of the underlying connection, shared by every checkout of it
func (c *Conn) Id() string {
	return c.ic.id
}

func (c *Conn) Key() Key {
	return c.ic.key
}

func (c *Conn) Protocol() transport.Protocol {
	return c.ic.protocol
}

// time it was created
func (c *Conn) Created() time.Time {
	return c.ic.created
}

func (c *Conn) Read(b []byte) (int, error) {
	if c.done.Load() {
		return 0, net.ErrClosed
	}
	n, err := c.Conn.Read(b)
	if err != nil {
		c.ic.broken.Store(true)
	}
	return n, err
}

func (c *Conn) Write(b []byte) (int, error) {
	if c.done.Load() {
		return 0, net.ErrClosed
	}
	n, err := c.Conn.Write(b)
	if err != nil {
		c.ic.broken.Store(true)
	}
	return n, err
}

func (c *Conn) SetDeadline(t time.Time) error {
	if c.done.Load() {
		return net.ErrClosed
	}
	return c.Conn.SetDeadline(t)
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	if c.done.Load() {
		return net.ErrClosed
	}
	return c.Conn.SetReadDeadline(t)
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	if c.done.Load() {
		return net.ErrClosed
	}
	return c.Conn.SetWriteDeadline(t)
}

// MarkBroken keeps the connection from being reused, for failures the pool
// cannot observe such as a malformed response.
func (c *Conn) MarkBroken() {
	if c.done.Load() {
		return
	}
	c.ic.broken.Store(true)
}

// Release hands the connection back for reuse. Connections that saw an
// I/O error or outlived the pool's lifetime are closed instead. Only the
// first of Release and Close has an effect.
func (c *Conn) Release() {
	if c.done.Swap(true) {
		return
	}
	c.pool.put(c.ic)
}

// Close discards the connection. The socket is closed in the background.
func (c *Conn) Close() error {
	if c.done.Swap(true) {
		return nil
	}
	c.pool.discard(c.ic, "closed")
	return nil
}

// disconnect closes the socket of ic. A TLS connection gets
// DisconnectTimeout to say goodbye before its underlying socket is dropped.
func (p *Pool) disconnect(ic *idleConn) error {
	tlsConn, ok := ic.Conn.(interface{ NetConn() net.Conn })
	timeout := p.opts.DisconnectTimeout

	if !ok || timeout <= 0 {
		return ic.Conn.Close()
	}

	ch := make(chan error, 1)
	go func() {
		ch <- ic.Conn.Close()
	}()

	delay := p.opts.Driver.Delay(timeout)
	defer delay.Stop()

	select {
	case err := <-ch:
		return err
	case <-delay.C():
		p.opts.Logger.Logf(logLevel, "[pool] %s disconnect of %s timed out, dropping socket", ic.key, ic.id)
		return tlsConn.NetConn().Close()
	}
}
