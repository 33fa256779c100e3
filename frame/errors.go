package frame

import "fmt"

// ArgumentError reports a caller-supplied value that was invalid before any
// bytes were written to the transport: an oversized payload or a spec field
// out of range. Sensor IDs are not checked client-side; an unknown one
// comes back from the device as a NAKError.
type ArgumentError struct {
	// Msg describes what was wrong.
	Msg string
}

func (e ArgumentError) Error() string {
	return "psa: argument error: " + e.Msg
}

// NewArgumentError builds an ArgumentError with a formatted message.
func NewArgumentError(format string, args ...interface{}) ArgumentError {
	return ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// TransportError wraps a failure from the underlying byte stream (I/O
// error, device disappeared). It is not retried by the pipeline.
type TransportError struct {
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("psa: transport error: %v", e.Err)
}

// Unwrap allows errors.Is/errors.As to reach the underlying transport error.
func (e TransportError) Unwrap() error {
	return e.Err
}

// CRCError reports a frame that arrived with a CRC that does not match its
// payload. The Parser reports a CRC mismatch as CRCErrorResult, and
// psa.Client logs it and keeps waiting; when the deadline expires without a
// good frame, the client returns TimeoutError, not CRCError.
type CRCError struct {
	// Expected is the CRC byte present on the wire.
	Expected byte
	// Computed is the CRC the parser computed over the frame's bytes.
	Computed byte
}

func (e CRCError) Error() string {
	return fmt.Sprintf("psa: CRC error: frame claims %#02x, computed %#02x", e.Expected, e.Computed)
}

// FormatError reports a structural violation: a bad LEN, a missing ETX, or
// a truncated payload. Treated like CRCError at the pipeline level.
type FormatError struct {
	Msg string
}

func (e FormatError) Error() string {
	return "psa: format error: " + e.Msg
}

// ProtocolError reports a well-formed frame whose command code or payload
// shape does not match the outstanding request. Surfaced immediately, not
// retried.
type ProtocolError struct {
	Msg string
}

func (e ProtocolError) Error() string {
	return "psa: protocol error: " + e.Msg
}

// NAKError reports that the device rejected a request. Code is preserved
// verbatim from the NAK payload's first byte.
type NAKError struct {
	Code ErrorCode
}

func (e NAKError) Error() string {
	return fmt.Sprintf("psa: device NAK: %s", e.Code)
}

// TimeoutError reports that the response deadline expired with no
// correlated reply. It carries the name of the operation that timed out.
type TimeoutError struct {
	// Op names the operation that timed out, e.g. "ping".
	Op string
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("psa: timeout waiting for reply to %s", e.Op)
}
