// Package crc8 computes the CRC-8/CCITT checksum used to guard PSA frames.
//
// The polynomial, initial value, and lack of reflection or final XOR must
// match the device firmware's lookup-table implementation bit for bit;
// calculate and verify are otherwise pure functions with no hidden state.
package crc8

import "github.com/snksoft/crc"

// params is the firmware's CRC-8/CCITT configuration: poly 0x07, init
// 0x00, no input/output reflection, no final XOR. This is exactly the
// library's predefined CRC8 parameter set.
var params = crc.CRC8

var table = crc.NewTable(params)

// Calculate returns the CRC-8 of data. The CRC of an empty slice is 0x00.
func Calculate(data []byte) byte {
	c := table.InitCrc()
	c = table.UpdateCrc(c, data)
	return byte(table.CRC8(c))
}

// Verify reports whether expected is the CRC-8 of data.
func Verify(data []byte, expected byte) bool {
	return Calculate(data) == expected
}

// Table returns the precomputed 256-entry lookup table, table[i] being the
// CRC-8 of the single byte i starting from the zero initial state. This is
// the same table the firmware builds at compile time (frame.c); row 0
// begins {0x00, 0x07, 0x0E, 0x09, 0x1C, 0x1B, 0x12, 0x15, ...}.
func Table() [256]byte {
	return lookupTable
}

var lookupTable = buildLookupTable()

func buildLookupTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = Calculate([]byte{byte(i)})
	}
	return t
}
