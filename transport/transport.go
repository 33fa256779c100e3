// Package transport defines the byte-level channel PSA speaks over and a
// serial-port implementation of it. The frame and psa packages are
// transport-agnostic; they depend only on the Transport interface here.
package transport

import (
	"errors"
	"time"
)

// ErrNotConnected is returned by Send/Receive when Open has not succeeded.
// SerialTransport also returns it after Close.
var ErrNotConnected = errors.New("transport: not connected")

// ErrClosed is returned by transporttest.Loopback's Send/Receive after Close.
var ErrClosed = errors.New("transport: closed")

// Transport is the byte-level channel a psa.Client speaks over. A Transport
// makes no promises about frame boundaries: Receive may return anywhere
// from zero bytes to many frames' worth, and it is the caller's job (the
// frame.Parser) to resynchronize on the wire format.
//
// A Transport is not safe for concurrent use; psa.Client has no lock of its
// own, so callers must not issue requests on one Client concurrently.
type Transport interface {
	// Open establishes the underlying connection. Calling Open on an
	// already-open Transport is a no-op.
	Open() error

	// Close releases the underlying connection. Calling Close on an
	// already-closed Transport is a no-op.
	Close() error

	// Send writes b in full to the remote end.
	Send(b []byte) error

	// Receive reads whatever bytes are available, blocking for up to
	// deadline before returning (0, nil) if none arrive. A zero deadline
	// means return immediately with whatever is already buffered.
	Receive(deadline time.Duration) ([]byte, error)

	// Flush discards any bytes the remote has sent that have not yet been
	// read. It is the caller's tool for resynchronising after a timeout;
	// psa.Client never calls it automatically (see the late-reply design
	// note: a late reply is meant to surface as leading garbage on the
	// next call unless the caller explicitly flushes).
	Flush() error
}
