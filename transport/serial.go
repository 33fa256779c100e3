package transport

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/tarm/serial"
)

// SerialTransport is a Transport backed by a physical or virtual serial
// port. Opening is retried with exponential backoff since the device may
// still be enumerating its USB-serial adapter right after power-up.
type SerialTransport struct {
	mu sync.Mutex

	portName string
	baud     int
	conn     *serial.Port
}

// NewSerialTransport returns a SerialTransport for the named port (e.g.
// "/dev/ttyUSB0" or "COM3") at the given baud rate. Open must be called
// before Send or Receive.
func NewSerialTransport(portName string, baud int) *SerialTransport {
	return &SerialTransport{portName: portName, baud: baud}
}

// Open opens the serial port, retrying with exponential backoff to ride out
// the device still enumerating. It is a no-op if already open.
func (s *SerialTransport) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return nil
	}

	cfg := &serial.Config{
		Name:        s.portName,
		Baud:        s.baud,
		ReadTimeout: 50 * time.Millisecond,
	}

	var conn *serial.Port
	op := func() error {
		c, err := serial.OpenPort(cfg)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}

	err := backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         1 * time.Second,
		MaxElapsedTime:      3 * time.Second,
		Clock:               backoff.SystemClock,
	})
	if err != nil {
		return TransportOpenError{Err: err}
	}
	s.conn = conn
	return nil
}

// Close closes the serial port. It is a no-op if already closed.
func (s *SerialTransport) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Send writes b in full to the serial port.
func (s *SerialTransport) Send(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrNotConnected
	}
	_, err := s.conn.Write(b)
	return err
}

// Receive reads whatever bytes arrive within deadline. tarm/serial has no
// notion of a per-call read deadline, so this polls the port's fixed
// ReadTimeout in a loop until either bytes arrive or deadline elapses.
func (s *SerialTransport) Receive(deadline time.Duration) ([]byte, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil, ErrNotConnected
	}

	buf := make([]byte, 256)
	deadlineAt := time.Now().Add(deadline)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out := make([]byte, n)
			copy(out, buf[:n])
			return out, nil
		}
		if time.Now().After(deadlineAt) {
			return nil, nil
		}
	}
}

// Flush discards any bytes already sitting in the driver's read buffer by
// draining them with the port's own short ReadTimeout. tarm/serial.Port
// exposes no TCFLSH-style flush call, so this reads until it times out
// rather than truly discarding unread bytes at the OS level.
func (s *SerialTransport) Flush() error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	buf := make([]byte, 256)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return nil
		}
		if n == 0 {
			return nil
		}
	}
}

// TransportOpenError wraps a failure to open the underlying serial port
// after exhausting the backoff schedule.
type TransportOpenError struct {
	Err error
}

func (e TransportOpenError) Error() string {
	return "transport: open failed: " + e.Err.Error()
}

func (e TransportOpenError) Unwrap() error {
	return e.Err
}
