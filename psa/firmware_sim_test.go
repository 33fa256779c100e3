package psa_test

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/Soochol/PSA-sensor-test/frame"
	"github.com/Soochol/PSA-sensor-test/psa"
	"github.com/Soochol/PSA-sensor-test/transport/transporttest"
)

// fakeFirmware is a hand-rolled test double standing in for the embedded
// device: it speaks just enough of the wire protocol to drive psa.Client
// through its request/reply scenarios without a physical device.
type fakeFirmware struct {
	dev    *transporttest.Loopback
	parser *frame.Parser

	mu       sync.Mutex
	mlxSpec  psa.MLX90640Spec
	vl53Spec psa.VL53L0XSpec

	stop chan struct{}
	done chan struct{}
}

func newFakeFirmware(dev *transporttest.Loopback) *fakeFirmware {
	return &fakeFirmware{
		dev:      dev,
		parser:   frame.NewParser(),
		mlxSpec:  psa.MLX90640Spec{TargetTemp: 3500, Tolerance: 500},
		vl53Spec: psa.VL53L0XSpec{TargetDist: 500, Tolerance: 50},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (f *fakeFirmware) run() {
	defer close(f.done)
	for {
		select {
		case <-f.stop:
			return
		default:
		}
		chunk, err := f.dev.Receive(20 * time.Millisecond)
		if err != nil {
			return
		}
		if len(chunk) > 0 {
			f.parser.Feed(chunk)
		}
		for {
			result, req, _ := f.parser.Parse()
			if result != frame.OK {
				break
			}
			f.handle(*req)
		}
	}
}

func (f *fakeFirmware) close() {
	close(f.stop)
	<-f.done
}

func (f *fakeFirmware) handle(req frame.Frame) {
	switch req.Cmd {
	case frame.CmdPing:
		f.reply(frame.RespPong, []byte{1, 0, 0})
	case frame.CmdGetSensorList:
		payload := []byte{}
		payload = append(payload, byte(frame.SensorMLX90640), byte(len("MLX90640")))
		payload = append(payload, []byte("MLX90640")...)
		payload = append(payload, byte(frame.SensorVL53L0X), byte(len("VL53L0X")))
		payload = append(payload, []byte("VL53L0X")...)
		f.reply(frame.RespSensorList, payload)
	case frame.CmdSetSpec:
		f.handleSetSpec(req.Payload)
	case frame.CmdGetSpec:
		f.handleGetSpec(req.Payload)
	case frame.CmdTestSingle:
		f.handleTestSingle(req.Payload)
	case frame.CmdTestAll:
		f.handleTestAll()
	default:
		f.nak(frame.ErrUnknownCmd)
	}
}

func (f *fakeFirmware) handleSetSpec(payload []byte) {
	if len(payload) != 5 {
		f.nak(frame.ErrInvalidPayload)
		return
	}
	id := frame.SensorID(payload[0])
	f.mu.Lock()
	defer f.mu.Unlock()
	switch id {
	case frame.SensorMLX90640:
		spec, err := psa.DecodeMLX90640Spec(payload[1:])
		if err != nil {
			f.nak(frame.ErrInvalidPayload)
			return
		}
		f.mlxSpec = spec
	case frame.SensorVL53L0X:
		spec, err := psa.DecodeVL53L0XSpec(payload[1:])
		if err != nil {
			f.nak(frame.ErrInvalidPayload)
			return
		}
		f.vl53Spec = spec
	default:
		f.nak(frame.ErrInvalidSensorID)
		return
	}
	f.reply(frame.RespACK, nil)
}

func (f *fakeFirmware) handleGetSpec(payload []byte) {
	if len(payload) != 1 {
		f.nak(frame.ErrInvalidPayload)
		return
	}
	id := frame.SensorID(payload[0])
	f.mu.Lock()
	defer f.mu.Unlock()
	switch id {
	case frame.SensorMLX90640:
		out := append([]byte{byte(id)}, psa.EncodeMLX90640Spec(f.mlxSpec)...)
		f.reply(frame.RespSpec, out)
	case frame.SensorVL53L0X:
		out := append([]byte{byte(id)}, psa.EncodeVL53L0XSpec(f.vl53Spec)...)
		f.reply(frame.RespSpec, out)
	default:
		f.nak(frame.ErrInvalidSensorID)
	}
}

func (f *fakeFirmware) handleTestSingle(payload []byte) {
	if len(payload) != 1 {
		f.nak(frame.ErrInvalidPayload)
		return
	}
	id := frame.SensorID(payload[0])
	switch id {
	case frame.SensorMLX90640, frame.SensorVL53L0X:
		f.reply(frame.RespTestResult, f.singleSensorReport(id))
	default:
		f.nak(frame.ErrInvalidSensorID)
	}
}

func (f *fakeFirmware) handleTestAll() {
	f.mu.Lock()
	mlxEntry := f.resultEntry(frame.SensorMLX90640)
	vl53Entry := f.resultEntry(frame.SensorVL53L0X)
	f.mu.Unlock()

	header := []byte{2, 2, 0, 0, 0, 0, 0}
	payload := append(header, mlxEntry...)
	payload = append(payload, vl53Entry...)
	f.reply(frame.RespTestResult, payload)
}

func (f *fakeFirmware) singleSensorReport(id frame.SensorID) []byte {
	f.mu.Lock()
	entry := f.resultEntry(id)
	f.mu.Unlock()
	header := []byte{1, 1, 0, 0, 0, 0, 0}
	return append(header, entry...)
}

// resultEntry builds a passing result record that exactly matches the
// stored spec's target, so measured == target and diff == 0. Caller holds
// f.mu.
func (f *fakeFirmware) resultEntry(id frame.SensorID) []byte {
	entry := make([]byte, 10)
	entry[0] = byte(id)
	entry[1] = byte(frame.StatusPass)
	switch id {
	case frame.SensorMLX90640:
		binary.BigEndian.PutUint16(entry[2:4], uint16(f.mlxSpec.TargetTemp))
		binary.BigEndian.PutUint16(entry[4:6], uint16(f.mlxSpec.TargetTemp))
		binary.BigEndian.PutUint16(entry[6:8], f.mlxSpec.Tolerance)
		binary.BigEndian.PutUint16(entry[8:10], 0)
	case frame.SensorVL53L0X:
		binary.BigEndian.PutUint16(entry[2:4], f.vl53Spec.TargetDist)
		binary.BigEndian.PutUint16(entry[4:6], f.vl53Spec.TargetDist)
		binary.BigEndian.PutUint16(entry[6:8], f.vl53Spec.Tolerance)
		binary.BigEndian.PutUint16(entry[8:10], 0)
	}
	return entry
}

func (f *fakeFirmware) nak(code frame.ErrorCode) {
	f.reply(frame.RespNAK, []byte{byte(code)})
}

func (f *fakeFirmware) reply(resp frame.Response, payload []byte) {
	b, err := frame.Build(frame.Frame{Cmd: frame.Command(resp), Payload: payload})
	if err != nil {
		return
	}
	f.dev.Send(b)
}
