package config

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Profile is a named preset of matcher tunables. Zero-valued fields leave
// the target setting alone, so a profile can adjust a single knob.
type Profile struct {
	Threshold      float64 `yaml:"threshold"`
	MaxCandidates  int     `yaml:"max_candidates"`
	ExcludeFlagged *bool   `yaml:"exclude_flagged"`
}

// Apply overlays the profile onto a match section.
func (p Profile) Apply(m *MatchConfig) {
	if p.Threshold != 0 {
		m.Threshold = p.Threshold
	}
	if p.MaxCandidates != 0 {
		m.MaxCandidates = p.MaxCandidates
	}
	if p.ExcludeFlagged != nil {
		m.ExcludeFlagged = *p.ExcludeFlagged
	}
}

// DefaultProfiles returns the built-in presets.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"standard": {Threshold: 75},
		"strict":   {Threshold: 85},
	}
}

// LoadProfiles merges presets from a YAML file over the built-ins. An empty
// path returns just the built-ins.
func LoadProfiles(path string) (map[string]Profile, error) {
	profiles := DefaultProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read profiles %s", path)
	}

	// The YAML has a top-level "profiles" key
	var wrapper struct {
		Profiles map[string]Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrapf(err, "config: parse profiles %s", path)
	}

	for name, p := range wrapper.Profiles {
		profiles[name] = p
	}
	return profiles, nil
}

// ResolveProfile loads the profile set from path and picks one by name.
func ResolveProfile(path, name string) (Profile, error) {
	profiles, err := LoadProfiles(path)
	if err != nil {
		return Profile{}, err
	}
	p, ok := profiles[name]
	if !ok {
		names := make([]string, 0, len(profiles))
		for n := range profiles {
			names = append(names, n)
		}
		sort.Strings(names)
		return Profile{}, eris.Errorf("config: unknown match profile %q (have %s)", name, strings.Join(names, ", "))
	}
	return p, nil
}
