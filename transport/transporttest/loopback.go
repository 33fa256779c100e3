// Package transporttest provides an in-memory transport.Transport double
// for exercising psa.Client without a physical serial port, in the style of
// the hand-rolled echo-server fixtures used to test comm.RemoteDevice.
package transporttest

import (
	"sync"
	"time"

	"github.com/Soochol/PSA-sensor-test/transport"
)

// Loopback is a transport.Transport backed by an in-memory byte channel. It
// pairs with a peer Loopback (see NewPair) so bytes sent on one side arrive
// as received bytes on the other, simulating the host end of a serial link
// with a simulated firmware on the other end.
type Loopback struct {
	mu     sync.Mutex
	opened bool
	closed bool

	outbox chan []byte // bytes this side has sent, read by the peer
	inbox  chan []byte // bytes the peer has sent, read by this side
}

// NewPair returns two Loopbacks wired to each other: bytes sent on a arrive
// on b's Receive, and vice versa.
func NewPair() (a, b *Loopback) {
	toA := make(chan []byte, 64)
	toB := make(chan []byte, 64)
	a = &Loopback{outbox: toB, inbox: toA}
	b = &Loopback{outbox: toA, inbox: toB}
	return a, b
}

// Open marks the transport open. It is a no-op if already open.
func (l *Loopback) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opened = true
	l.closed = false
	return nil
}

// Close marks the transport closed. It is a no-op if already closed.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Send pushes b onto the peer's inbox.
func (l *Loopback) Send(b []byte) error {
	l.mu.Lock()
	opened, closed := l.opened, l.closed
	l.mu.Unlock()
	if closed {
		return transport.ErrClosed
	}
	if !opened {
		return transport.ErrNotConnected
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	l.outbox <- cp
	return nil
}

// Flush discards any inbox chunks that have not yet been read.
func (l *Loopback) Flush() error {
	for {
		select {
		case <-l.inbox:
		default:
			return nil
		}
	}
}

// Receive waits up to deadline for one inbox chunk. A zero deadline polls
// without blocking.
func (l *Loopback) Receive(deadline time.Duration) ([]byte, error) {
	l.mu.Lock()
	opened, closed := l.opened, l.closed
	l.mu.Unlock()
	if closed {
		return nil, transport.ErrClosed
	}
	if !opened {
		return nil, transport.ErrNotConnected
	}

	if deadline <= 0 {
		select {
		case b := <-l.inbox:
			return b, nil
		default:
			return nil, nil
		}
	}

	timer := time.NewTimer(deadline)
	defer timer.Stop()
	select {
	case b := <-l.inbox:
		return b, nil
	case <-timer.C:
		return nil, nil
	}
}
