package psa

import (
	"fmt"

	"github.com/Soochol/PSA-sensor-test/frame"
)

// SensorInfo is one entry of the device's sensor registry, as returned by
// GetSensorList. Order matches the device's internal registration order
// and is stable across calls within a boot epoch.
type SensorInfo struct {
	SensorID frame.SensorID
	Name     string
}

// FirmwareVersion is the device's reported firmware version. The wire
// reply is a bare 3-byte (major, minor, patch) tuple; this struct is the
// idiomatic Go shape for it.
type FirmwareVersion struct {
	Major, Minor, Patch byte
}

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
