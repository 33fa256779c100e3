// Package psa implements the host-side client for the PSA binary
// request/response protocol: a request pipeline over frame.Parser and a
// transport.Transport, typed per-sensor codecs, and a YAML spec-profile
// convenience loader.
package psa

import (
	"log"
	"time"

	"github.com/Soochol/PSA-sensor-test/frame"
	"github.com/Soochol/PSA-sensor-test/transport"
)

// DefaultResponseTimeout is used for every operation that does not
// override it explicitly (TestAll may take longer).
const DefaultResponseTimeout = 2 * time.Second

// pollInterval is how long a single Receive call blocks while the pipeline
// waits for a reply within the overall deadline.
const pollInterval = 50 * time.Millisecond

// Client owns a Transport and a frame.Parser and composes them into the
// typed request/reply operations. It is single-threaded per
// instance: no request may be issued concurrently with another on the same
// Client, mirroring the wire's strictly half-duplex, one-outstanding-
// request discipline. There is no internal locking; callers wanting
// concurrent access must serialize it themselves.
type Client struct {
	t   transport.Transport
	p   *frame.Parser
	log *log.Logger

	// ResponseTimeout is the default wall-clock deadline for a reply.
	ResponseTimeout time.Duration
}

// NewClient wires a Client around t, taking its collaborators as
// constructor arguments rather than reaching for package globals. logger
// may be nil, in which case log.Default() is used.
func NewClient(t transport.Transport, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		t:               t,
		p:               frame.NewParser(),
		log:             logger,
		ResponseTimeout: DefaultResponseTimeout,
	}
}

// Open opens the underlying transport.
func (c *Client) Open() error {
	if err := c.t.Open(); err != nil {
		return frame.TransportError{Err: err}
	}
	return nil
}

// Close closes the underlying transport. It does not clear the parser
// buffer; call Reset first if that matters to the caller.
func (c *Client) Close() error {
	if err := c.t.Close(); err != nil {
		return frame.TransportError{Err: err}
	}
	return nil
}

// Reset flushes the transport and clears the parser's buffered bytes. The
// pipeline never does this automatically between requests: a
// late reply after a TimeoutError is meant to surface as leading garbage
// on the next call unless the caller explicitly resynchronises.
func (c *Client) Reset() error {
	c.p.Clear()
	if err := c.t.Flush(); err != nil {
		return frame.TransportError{Err: err}
	}
	return nil
}

// roundTrip writes req, then polls the transport and parser until a frame
// with one of wantResponses arrives, a NAK arrives, the deadline defined
// by timeout expires, or a protocol violation occurs. It implements the
// same five-step template shared by every public operation.
func (c *Client) roundTrip(op string, req []byte, timeout time.Duration, wantResponses ...frame.Response) (frame.Frame, error) {
	if err := c.t.Send(req); err != nil {
		return frame.Frame{}, frame.TransportError{Err: err}
	}

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return frame.Frame{}, frame.TimeoutError{Op: op}
		}

		waitFor := pollInterval
		if remaining < waitFor {
			waitFor = remaining
		}
		chunk, err := c.t.Receive(waitFor)
		if err != nil {
			return frame.Frame{}, frame.TransportError{Err: err}
		}
		if len(chunk) > 0 {
			c.p.Feed(chunk)
		}

		for {
			result, f, _ := c.p.Parse()
			switch result {
			case frame.OK:
				resp := frame.Response(f.Cmd)
				if resp == frame.RespNAK {
					code := frame.ErrUnknownCmd
					if len(f.Payload) > 0 {
						code = frame.ErrorCode(f.Payload[0])
					}
					return frame.Frame{}, frame.NAKError{Code: code}
				}
				if !responseMatches(resp, wantResponses) {
					return frame.Frame{}, frame.ProtocolError{
						Msg: "unexpected reply " + resp.String() + " to " + op,
					}
				}
				return *f, nil
			case frame.CRCErrorResult:
				c.log.Printf("psa: %s: CRC error on incoming frame, continuing to wait", op)
				continue
			case frame.FormatErrorResult:
				c.log.Printf("psa: %s: format error on incoming frame, continuing to wait", op)
				continue
			case frame.Incomplete:
				// Fall through to poll the transport again.
			}
			break
		}
	}
}

func responseMatches(got frame.Response, want []frame.Response) bool {
	for _, w := range want {
		if got == w {
			return true
		}
	}
	return false
}

// Ping queries the device's liveness and firmware version. No arguments.
func (c *Client) Ping() (FirmwareVersion, error) {
	req, err := frame.BuildPing()
	if err != nil {
		return FirmwareVersion{}, err
	}
	f, err := c.roundTrip("ping", req, c.ResponseTimeout, frame.RespPong)
	if err != nil {
		return FirmwareVersion{}, err
	}
	if len(f.Payload) != 3 {
		return FirmwareVersion{}, frame.ProtocolError{Msg: protocolLenMsg("ping reply", 3, len(f.Payload))}
	}
	return FirmwareVersion{Major: f.Payload[0], Minor: f.Payload[1], Patch: f.Payload[2]}, nil
}

// GetSensorList enumerates the sensors attached to the device, in the
// device's internal registration order.
func (c *Client) GetSensorList() ([]SensorInfo, error) {
	req, err := frame.BuildGetSensorList()
	if err != nil {
		return nil, err
	}
	f, err := c.roundTrip("get_sensor_list", req, c.ResponseTimeout, frame.RespSensorList)
	if err != nil {
		return nil, err
	}
	return DecodeSensorList(f.Payload)
}

// SetSpecMLX90640 pushes a target/tolerance pair for the MLX90640 thermal
// sensor. Returns nil on ACK; a NAK from the device is returned as a
// NAKError.
func (c *Client) SetSpecMLX90640(spec MLX90640Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	req, err := frame.BuildSetSpec(frame.SensorMLX90640, EncodeMLX90640Spec(spec))
	if err != nil {
		return err
	}
	_, err = c.roundTrip("set_spec_mlx90640", req, c.ResponseTimeout, frame.RespACK)
	return err
}

// GetSpecMLX90640 reads back the MLX90640 spec currently stored on the
// device.
func (c *Client) GetSpecMLX90640() (MLX90640Spec, error) {
	req, err := frame.BuildGetSpec(frame.SensorMLX90640)
	if err != nil {
		return MLX90640Spec{}, err
	}
	f, err := c.roundTrip("get_spec_mlx90640", req, c.ResponseTimeout, frame.RespSpec)
	if err != nil {
		return MLX90640Spec{}, err
	}
	if len(f.Payload) < 1 {
		return MLX90640Spec{}, frame.ProtocolError{Msg: "get_spec reply missing sensor id byte"}
	}
	if got := frame.SensorID(f.Payload[0]); got != frame.SensorMLX90640 {
		return MLX90640Spec{}, frame.ProtocolError{Msg: "get_spec reply sensor id mismatch: got " + got.String()}
	}
	return DecodeMLX90640Spec(f.Payload[1:])
}

// SetSpecVL53L0X pushes a target/tolerance pair for the VL53L0X
// time-of-flight range sensor.
func (c *Client) SetSpecVL53L0X(spec VL53L0XSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	req, err := frame.BuildSetSpec(frame.SensorVL53L0X, EncodeVL53L0XSpec(spec))
	if err != nil {
		return err
	}
	_, err = c.roundTrip("set_spec_vl53l0x", req, c.ResponseTimeout, frame.RespACK)
	return err
}

// GetSpecVL53L0X reads back the VL53L0X spec currently stored on the
// device.
func (c *Client) GetSpecVL53L0X() (VL53L0XSpec, error) {
	req, err := frame.BuildGetSpec(frame.SensorVL53L0X)
	if err != nil {
		return VL53L0XSpec{}, err
	}
	f, err := c.roundTrip("get_spec_vl53l0x", req, c.ResponseTimeout, frame.RespSpec)
	if err != nil {
		return VL53L0XSpec{}, err
	}
	if len(f.Payload) < 1 {
		return VL53L0XSpec{}, frame.ProtocolError{Msg: "get_spec reply missing sensor id byte"}
	}
	if got := frame.SensorID(f.Payload[0]); got != frame.SensorVL53L0X {
		return VL53L0XSpec{}, frame.ProtocolError{Msg: "get_spec reply sensor id mismatch: got " + got.String()}
	}
	return DecodeVL53L0XSpec(f.Payload[1:])
}

// TestSingle runs a self-test against one sensor and returns its report.
//
// An unrecognised sensor id is not rejected client-side: it is sent to the
// device like any other id, and the device's NAK(INVALID_SENSOR_ID) comes
// back as a NAKError unchanged. The client only raises ArgumentError for
// things it can know are wrong without asking the device (oversized
// payloads, out-of-range spec fields).
func (c *Client) TestSingle(id frame.SensorID) (TestReport, error) {
	req, err := frame.BuildTestSingle(id)
	if err != nil {
		return TestReport{}, err
	}
	f, err := c.roundTrip("test_single", req, c.ResponseTimeout, frame.RespTestResult)
	if err != nil {
		return TestReport{}, err
	}
	report, err := DecodeTestReport(f.Payload)
	if err != nil {
		return TestReport{}, err
	}
	if report.SensorCount != 1 {
		return TestReport{}, frame.ProtocolError{Msg: "test_single reply sensor_count != 1"}
	}
	return report, nil
}

// TestAll runs a self-test against every attached sensor. timeout, if
// positive, overrides ResponseTimeout for this call — the device may need
// longer to exercise every sensor than a single-sensor test.
func (c *Client) TestAll(timeout time.Duration) (TestReport, error) {
	if timeout <= 0 {
		timeout = c.ResponseTimeout
	}
	req, err := frame.BuildTestAll()
	if err != nil {
		return TestReport{}, err
	}
	f, err := c.roundTrip("test_all", req, timeout, frame.RespTestResult)
	if err != nil {
		return TestReport{}, err
	}
	report, err := DecodeTestReport(f.Payload)
	if err != nil {
		return TestReport{}, err
	}
	if report.SensorCount < 1 {
		return TestReport{}, frame.ProtocolError{Msg: "test_all reply sensor_count < 1"}
	}
	return report, nil
}
