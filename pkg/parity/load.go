package parity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile parses a YAML override document at path onto a copy of
// Default(), so a profile file only needs to specify the fields it changes.
// Grounded on the teacher's pkg/dungeon.Config / pkg/themes.ThemePack
// pattern of yaml.Unmarshal into a struct with yaml-tagged fields; unlike
// the teacher's full-document configs, a parity profile overlays onto
// compiled defaults rather than requiring every field.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("parity: reading profile %s: %w", path, err)
	}

	profile := Default()
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("parity: parsing profile %s: %w", path, err)
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, fmt.Errorf("parity: invalid profile %s: %w", path, err)
	}

	return profile, nil
}
