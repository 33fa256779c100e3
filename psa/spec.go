package psa

import "github.com/Soochol/PSA-sensor-test/frame"

// MLX90640Spec is the target/tolerance pair the device judges an IR
// thermal-camera measurement against. Both fields are hundredths of a
// degree Celsius on the wire.
type MLX90640Spec struct {
	// TargetTemp is the expected temperature in hundredths of °C.
	// Valid range: [-4000, 30000].
	TargetTemp int16
	// Tolerance is the acceptable deviation in hundredths of °C. Must be
	// strictly positive.
	Tolerance uint16
}

// TargetCelsius returns TargetTemp converted to whole-unit degrees
// Celsius.
func (s MLX90640Spec) TargetCelsius() float64 {
	return float64(s.TargetTemp) / 100.0
}

// ToleranceCelsius returns Tolerance converted to whole-unit degrees
// Celsius.
func (s MLX90640Spec) ToleranceCelsius() float64 {
	return float64(s.Tolerance) / 100.0
}

// Validate checks the spec's fields against their valid ranges: TargetTemp
// in [-4000, 30000], Tolerance strictly positive.
func (s MLX90640Spec) Validate() error {
	if s.TargetTemp < -4000 || s.TargetTemp > 30000 {
		return frame.NewArgumentError("mlx90640 target_temp %d out of range [-4000, 30000]", s.TargetTemp)
	}
	if s.Tolerance == 0 {
		return frame.NewArgumentError("mlx90640 tolerance must be positive")
	}
	return nil
}

// VL53L0XSpec is the target/tolerance pair the device judges a
// time-of-flight range measurement against. Both fields are in
// millimetres on the wire.
type VL53L0XSpec struct {
	// TargetDist is the expected distance in millimetres. Typical range:
	// [30, 2000].
	TargetDist uint16
	// Tolerance is the acceptable deviation in millimetres. Must be
	// strictly positive.
	Tolerance uint16
}

// Validate checks the spec's fields against their typical ranges:
// TargetDist in [30, 2000], Tolerance strictly positive.
func (s VL53L0XSpec) Validate() error {
	if s.TargetDist < 30 || s.TargetDist > 2000 {
		return frame.NewArgumentError("vl53l0x target_dist %d out of typical range [30, 2000]", s.TargetDist)
	}
	if s.Tolerance == 0 {
		return frame.NewArgumentError("vl53l0x tolerance must be positive")
	}
	return nil
}
