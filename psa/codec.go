package psa

import (
	"encoding/binary"
	"fmt"

	"github.com/Soochol/PSA-sensor-test/frame"
)

// All multi-byte integers on the wire are big-endian; signed values use
// two's complement. These encode/decode helpers are the only place that
// reasons about byte order — callers never shift bytes themselves.

// EncodeMLX90640Spec renders spec as its 4-byte wire form:
// target_temp (i16 BE), tolerance (u16 BE).
func EncodeMLX90640Spec(spec MLX90640Spec) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint16(out[0:2], uint16(spec.TargetTemp))
	binary.BigEndian.PutUint16(out[2:4], spec.Tolerance)
	return out
}

// DecodeMLX90640Spec parses the 4-byte wire form of an MLX90640Spec.
// Strict length checking: anything but exactly 4 bytes is a ProtocolError.
func DecodeMLX90640Spec(data []byte) (MLX90640Spec, error) {
	if len(data) != 4 {
		return MLX90640Spec{}, frame.ProtocolError{Msg: protocolLenMsg("mlx90640 spec", 4, len(data))}
	}
	return MLX90640Spec{
		TargetTemp: int16(binary.BigEndian.Uint16(data[0:2])),
		Tolerance:  binary.BigEndian.Uint16(data[2:4]),
	}, nil
}

// EncodeVL53L0XSpec renders spec as its 4-byte wire form:
// target_dist (u16 BE), tolerance (u16 BE).
func EncodeVL53L0XSpec(spec VL53L0XSpec) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint16(out[0:2], spec.TargetDist)
	binary.BigEndian.PutUint16(out[2:4], spec.Tolerance)
	return out
}

// DecodeVL53L0XSpec parses the 4-byte wire form of a VL53L0XSpec.
func DecodeVL53L0XSpec(data []byte) (VL53L0XSpec, error) {
	if len(data) != 4 {
		return VL53L0XSpec{}, frame.ProtocolError{Msg: protocolLenMsg("vl53l0x spec", 4, len(data))}
	}
	return VL53L0XSpec{
		TargetDist: binary.BigEndian.Uint16(data[0:2]),
		Tolerance:  binary.BigEndian.Uint16(data[2:4]),
	}, nil
}

// DecodeMLXResult parses an 8-byte result record with a signed measured
// field (measured, target, tolerance, diff — all u16/i16 BE).
func DecodeMLXResult(data []byte) (MLXResult, error) {
	if len(data) != 8 {
		return MLXResult{}, frame.ProtocolError{Msg: protocolLenMsg("mlx result", 8, len(data))}
	}
	return MLXResult{
		Measured:  int16(binary.BigEndian.Uint16(data[0:2])),
		Target:    int16(binary.BigEndian.Uint16(data[2:4])),
		Tolerance: binary.BigEndian.Uint16(data[4:6]),
		Diff:      binary.BigEndian.Uint16(data[6:8]),
	}, nil
}

// DecodeRangeResult parses an 8-byte result record with an unsigned
// measured field (measured, target, tolerance, diff — all u16 BE).
func DecodeRangeResult(data []byte) (RangeResult, error) {
	if len(data) != 8 {
		return RangeResult{}, frame.ProtocolError{Msg: protocolLenMsg("range result", 8, len(data))}
	}
	return RangeResult{
		Measured:  binary.BigEndian.Uint16(data[0:2]),
		Target:    binary.BigEndian.Uint16(data[2:4]),
		Tolerance: binary.BigEndian.Uint16(data[4:6]),
		Diff:      binary.BigEndian.Uint16(data[6:8]),
	}, nil
}

// DecodeSensorList parses the GET_SENSOR_LIST reply payload: a sequence of
// {sensor_id: u8, name_len: u8, name: name_len bytes} entries with no
// outer count — the list runs to the end of the payload. Trailing bytes
// that don't form a whole entry are a ProtocolError.
func DecodeSensorList(payload []byte) ([]SensorInfo, error) {
	var out []SensorInfo
	i := 0
	for i < len(payload) {
		if i+2 > len(payload) {
			return nil, frame.ProtocolError{Msg: "sensor list entry truncated before name length"}
		}
		id := frame.SensorID(payload[i])
		nameLen := int(payload[i+1])
		i += 2
		if i+nameLen > len(payload) {
			return nil, frame.ProtocolError{Msg: "sensor list entry name exceeds payload"}
		}
		name := string(payload[i : i+nameLen])
		i += nameLen
		out = append(out, SensorInfo{SensorID: id, Name: name})
	}
	return out, nil
}

// testReportHeaderLen is sensor_count + pass_count + fail_count + timestamp(u32).
const testReportHeaderLen = 7

// testReportEntryLen is sensor_id + status + 8 result bytes.
const testReportEntryLen = 10

// DecodeTestReport parses a TEST_RESULT reply payload: a 7-byte
// header followed by sensor_count fixed-width entries. Strict length
// checking: the payload must be exactly header + sensor_count*entry
// bytes long.
func DecodeTestReport(payload []byte) (TestReport, error) {
	if len(payload) < testReportHeaderLen {
		return TestReport{}, frame.ProtocolError{Msg: protocolLenMsg("test report header", testReportHeaderLen, len(payload))}
	}
	sensorCount := payload[0]
	passCount := payload[1]
	failCount := payload[2]
	timestamp := binary.BigEndian.Uint32(payload[3:7])

	want := testReportHeaderLen + int(sensorCount)*testReportEntryLen
	if len(payload) != want {
		return TestReport{}, frame.ProtocolError{Msg: protocolLenMsg("test report", want, len(payload))}
	}

	results := make([]TestResult, 0, sensorCount)
	off := testReportHeaderLen
	for i := 0; i < int(sensorCount); i++ {
		entry := payload[off : off+testReportEntryLen]
		var resultBytes [8]byte
		copy(resultBytes[:], entry[2:10])
		results = append(results, TestResult{
			SensorID:    frame.SensorID(entry[0]),
			Status:      frame.TestStatus(entry[1]),
			ResultBytes: resultBytes,
		})
		off += testReportEntryLen
	}

	return TestReport{
		SensorCount: sensorCount,
		PassCount:   passCount,
		FailCount:   failCount,
		Timestamp:   timestamp,
		Results:     results,
	}, nil
}

func protocolLenMsg(what string, want, got int) string {
	return fmt.Sprintf("%s: expected %d bytes, got %d", what, want, got)
}
