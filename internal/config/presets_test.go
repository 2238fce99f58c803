package config

import (
	"os"
	"path/filepath"
	"testing"

	"simplerename/internal/rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePreset(name string) Preset {
	return Preset{
		Name: name,
		Rules: []rule.Rule{
			rule.FindReplace(" ", "_", false),
			rule.Case(rule.CaseLower),
			rule.Numbering(1, 1, 3, rule.PositionSuffix),
		},
	}
}

func TestLoadPresetsFileMissingIsEmpty(t *testing.T) {
	p, err := LoadPresetsFile(filepath.Join(t.TempDir(), "presets.yaml"))
	require.NoError(t, err)
	assert.Empty(t, p.Presets)
}

func TestPresetsSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	p := &Presets{}
	p.Set(samplePreset("tidy"))
	require.NoError(t, p.SaveFile(path))

	loaded, err := LoadPresetsFile(path)
	require.NoError(t, err)
	got, ok := loaded.Get("tidy")
	require.True(t, ok)
	assert.Equal(t, samplePreset("tidy"), got)
}

func TestPresetsSortedOnSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	p := &Presets{}
	p.Set(samplePreset("zeta"))
	p.Set(samplePreset("alpha"))
	require.NoError(t, p.SaveFile(path))

	loaded, err := LoadPresetsFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Presets, 2)
	assert.Equal(t, "alpha", loaded.Presets[0].Name)
	assert.Equal(t, "zeta", loaded.Presets[1].Name)
}

func TestPresetsSetReplacesSameName(t *testing.T) {
	p := &Presets{}
	p.Set(samplePreset("tidy"))
	replacement := Preset{Name: "tidy", Rules: []rule.Rule{rule.Prefix("x_")}}
	p.Set(replacement)
	require.Len(t, p.Presets, 1)
	got, _ := p.Get("tidy")
	assert.Equal(t, replacement, got)
}

func TestPresetsDelete(t *testing.T) {
	p := &Presets{}
	p.Set(samplePreset("tidy"))
	assert.True(t, p.Delete("tidy"))
	assert.False(t, p.Delete("tidy"))
	_, ok := p.Get("tidy")
	assert.False(t, ok)
}

func TestLoadPresetsFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets: {not: [valid"), 0644))
	_, err := LoadPresetsFile(path)
	assert.Error(t, err)
}
