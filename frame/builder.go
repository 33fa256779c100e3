package frame

import "github.com/Soochol/PSA-sensor-test/crc8"

// Build encodes f as STX | LEN | CMD | PAYLOAD | CRC | ETX, where CRC
// covers LEN | CMD | PAYLOAD (not STX). It errors if the payload exceeds
// MaxPayload; no bytes are produced in that case.
func Build(f Frame) ([]byte, error) {
	if len(f.Payload) > MaxPayload {
		return nil, NewArgumentError("payload length %d exceeds maximum %d", len(f.Payload), MaxPayload)
	}

	out := make([]byte, 0, len(f.Payload)+5)
	out = append(out, STX)
	out = append(out, byte(len(f.Payload)))
	out = append(out, byte(f.Cmd))
	out = append(out, f.Payload...)

	crcData := out[1:] // LEN | CMD | PAYLOAD
	out = append(out, crc8.Calculate(crcData))
	out = append(out, ETX)
	return out, nil
}

// BuildPing builds a PING request frame. PING takes no arguments.
func BuildPing() ([]byte, error) {
	return Build(Frame{Cmd: CmdPing})
}

// BuildTestAll builds a TEST_ALL request frame.
func BuildTestAll() ([]byte, error) {
	return Build(Frame{Cmd: CmdTestAll})
}

// BuildTestSingle builds a TEST_SINGLE request frame for the given sensor.
func BuildTestSingle(id SensorID) ([]byte, error) {
	return Build(Frame{Cmd: CmdTestSingle, Payload: []byte{byte(id)}})
}

// BuildGetSensorList builds a GET_SENSOR_LIST request frame.
func BuildGetSensorList() ([]byte, error) {
	return Build(Frame{Cmd: CmdGetSensorList})
}

// BuildSetSpec builds a SET_SPEC request frame: SET_SPEC | sensorID | specData.
func BuildSetSpec(id SensorID, specData []byte) ([]byte, error) {
	payload := make([]byte, 0, 1+len(specData))
	payload = append(payload, byte(id))
	payload = append(payload, specData...)
	return Build(Frame{Cmd: CmdSetSpec, Payload: payload})
}

// BuildGetSpec builds a GET_SPEC request frame: GET_SPEC | sensorID.
func BuildGetSpec(id SensorID) ([]byte, error) {
	return Build(Frame{Cmd: CmdGetSpec, Payload: []byte{byte(id)}})
}
