package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"simplerename/internal/rule"

	"gopkg.in/yaml.v3"
)

// Preset is a named, ordered rule list the user can recall by name.
type Preset struct {
	Name  string      `yaml:"name"`
	Rules []rule.Rule `yaml:"rules"`
}

// Presets is the full preset file contents, kept sorted by name for stable
// serialization.
type Presets struct {
	Presets []Preset `yaml:"presets"`
}

// PresetsPath returns the preset file location.
func PresetsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets.yaml"), nil
}

// LoadPresets reads the preset file, returning an empty set when none
// exists yet.
func LoadPresets() (*Presets, error) {
	path, err := PresetsPath()
	if err != nil {
		return nil, err
	}
	return LoadPresetsFile(path)
}

// LoadPresetsFile reads presets from a specific path.
func LoadPresetsFile(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Presets{}, nil
		}
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse presets file: %w", err)
	}
	return &p, nil
}

// Save writes the presets to the default location.
func (p *Presets) Save() error {
	path, err := PresetsPath()
	if err != nil {
		return err
	}
	return p.SaveFile(path)
}

// SaveFile writes the presets to a specific path.
func (p *Presets) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}
	sort.Slice(p.Presets, func(i, j int) bool { return p.Presets[i].Name < p.Presets[j].Name })
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}
	return nil
}

// Get returns the preset with the given name.
func (p *Presets) Get(name string) (Preset, bool) {
	for _, preset := range p.Presets {
		if preset.Name == name {
			return preset, true
		}
	}
	return Preset{}, false
}

// Set adds or replaces the preset with the same name.
func (p *Presets) Set(preset Preset) {
	for i, existing := range p.Presets {
		if existing.Name == preset.Name {
			p.Presets[i] = preset
			return
		}
	}
	p.Presets = append(p.Presets, preset)
}

// Delete removes the named preset, reporting whether it existed.
func (p *Presets) Delete(name string) bool {
	for i, preset := range p.Presets {
		if preset.Name == name {
			p.Presets = append(p.Presets[:i], p.Presets[i+1:]...)
			return true
		}
	}
	return false
}
