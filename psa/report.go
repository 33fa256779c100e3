package psa

import "github.com/Soochol/PSA-sensor-test/frame"

// MLXResult is a decoded 8-byte result record for an MLX90640 measurement.
// Measured and target are signed (temperature can be negative).
type MLXResult struct {
	Measured  int16
	Target    int16
	Tolerance uint16
	Diff      uint16
}

// Passed reports whether the measurement fell within tolerance.
func (r MLXResult) Passed() bool {
	return r.Diff <= r.Tolerance
}

// MaxTempCelsius returns Measured converted to whole-unit degrees Celsius.
func (r MLXResult) MaxTempCelsius() float64 {
	return float64(r.Measured) / 100.0
}

// RangeResult is a decoded 8-byte result record for a VL53L0X measurement.
// Measured and target are unsigned (distance cannot be negative).
type RangeResult struct {
	Measured  uint16
	Target    uint16
	Tolerance uint16
	Diff      uint16
}

// Passed reports whether the measurement fell within tolerance.
func (r RangeResult) Passed() bool {
	return r.Diff <= r.Tolerance
}

// TestResult is one sensor's entry within a TestReport: the sensor that
// was tested, its status, and the raw 8-byte result record (decode with
// DecodeMLXResult or DecodeRangeResult depending on SensorID).
type TestResult struct {
	SensorID    frame.SensorID
	Status      frame.TestStatus
	ResultBytes [8]byte
}

// TestReport is the aggregate status document returned by TEST_SINGLE and
// TEST_ALL.
type TestReport struct {
	SensorCount uint8
	PassCount   uint8
	FailCount   uint8
	Timestamp   uint32
	Results     []TestResult
}

// AllPassed reports whether every tested sensor passed: no failures were
// reported and every sensor in the report was tested (none NOT_TESTED).
func (r TestReport) AllPassed() bool {
	return r.FailCount == 0 && r.PassCount == r.SensorCount
}
