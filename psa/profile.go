package psa

import (
	"os"

	"gopkg.in/yaml.v2"
)

// SpecProfile is a named bundle of per-sensor specs, loadable from a YAML
// file, mirroring the yaml-tagged struct shape sensor.Info uses for its
// own configuration. This is a caller-side convenience built on top of
// SET_SPEC/GET_SPEC; it introduces no new wire operation.
type SpecProfile struct {
	Name     string        `yaml:"name"`
	MLX90640 *MLX90640Spec `yaml:"mlx90640,omitempty"`
	VL53L0X  *VL53L0XSpec  `yaml:"vl53l0x,omitempty"`
}

// LoadSpecProfile reads and parses a YAML spec profile from path.
func LoadSpecProfile(path string) (SpecProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SpecProfile{}, err
	}
	var profile SpecProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return SpecProfile{}, err
	}
	return profile, nil
}

// LoadSpecProfiles reads a YAML file containing a list of named profiles,
// e.g. for a test station that cycles through several target conditions.
func LoadSpecProfiles(path string) ([]SpecProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var profiles []SpecProfile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ApplyProfile pushes every spec a profile defines to the device via the
// client's normal SetSpec* calls.
func ApplyProfile(c *Client, profile SpecProfile) error {
	if profile.MLX90640 != nil {
		if err := c.SetSpecMLX90640(*profile.MLX90640); err != nil {
			return err
		}
	}
	if profile.VL53L0X != nil {
		if err := c.SetSpecVL53L0X(*profile.VL53L0X); err != nil {
			return err
		}
	}
	return nil
}
