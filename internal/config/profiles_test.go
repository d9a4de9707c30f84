package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfiles(t *testing.T, yml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	return path
}

func boolPtr(b bool) *bool { return &b }

func TestDefaultProfiles(t *testing.T) {
	t.Parallel()

	profiles := DefaultProfiles()
	require.Contains(t, profiles, "standard")
	require.Contains(t, profiles, "strict")
	assert.InDelta(t, 75.0, profiles["standard"].Threshold, 1e-9)
	assert.InDelta(t, 85.0, profiles["strict"].Threshold, 1e-9)
}

func TestLoadProfilesEmptyPath(t *testing.T) {
	t.Parallel()

	profiles, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfiles(), profiles)
}

func TestLoadProfilesMergesOverBuiltins(t *testing.T) {
	t.Parallel()

	path := writeProfiles(t, `
profiles:
  standard:
    threshold: 70
  conservative:
    threshold: 90
    max_candidates: 1
    exclude_flagged: true
`)

	profiles, err := LoadProfiles(path)
	require.NoError(t, err)

	assert.InDelta(t, 70.0, profiles["standard"].Threshold, 1e-9, "file overrides built-in")
	assert.InDelta(t, 85.0, profiles["strict"].Threshold, 1e-9, "untouched built-in survives")

	conservative, ok := profiles["conservative"]
	require.True(t, ok)
	assert.InDelta(t, 90.0, conservative.Threshold, 1e-9)
	assert.Equal(t, 1, conservative.MaxCandidates)
	require.NotNil(t, conservative.ExcludeFlagged)
	assert.True(t, *conservative.ExcludeFlagged)
}

func TestLoadProfilesMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadProfiles(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read profiles")
}

func TestLoadProfilesMalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeProfiles(t, "profiles: [oops")
	_, err := LoadProfiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse profiles")
}

func TestResolveProfile(t *testing.T) {
	t.Parallel()

	p, err := ResolveProfile("", "strict")
	require.NoError(t, err)
	assert.InDelta(t, 85.0, p.Threshold, 1e-9)
}

func TestResolveProfileUnknown(t *testing.T) {
	t.Parallel()

	_, err := ResolveProfile("", "aggressive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown match profile "aggressive"`)
	assert.Contains(t, err.Error(), "standard, strict")
}

func TestProfileApply(t *testing.T) {
	t.Parallel()

	t.Run("full profile", func(t *testing.T) {
		t.Parallel()
		m := MatchConfig{Threshold: 75, MaxCandidates: 3, ExcludeFlagged: true}
		Profile{Threshold: 90, MaxCandidates: 1, ExcludeFlagged: boolPtr(false)}.Apply(&m)
		assert.InDelta(t, 90.0, m.Threshold, 1e-9)
		assert.Equal(t, 1, m.MaxCandidates)
		assert.False(t, m.ExcludeFlagged)
	})

	t.Run("partial profile leaves other knobs", func(t *testing.T) {
		t.Parallel()
		m := MatchConfig{Threshold: 75, MaxCandidates: 3, ExcludeFlagged: true}
		Profile{Threshold: 85}.Apply(&m)
		assert.InDelta(t, 85.0, m.Threshold, 1e-9)
		assert.Equal(t, 3, m.MaxCandidates)
		assert.True(t, m.ExcludeFlagged)
	})

	t.Run("zero profile is a no-op", func(t *testing.T) {
		t.Parallel()
		m := MatchConfig{Threshold: 75, MaxCandidates: 3, ExcludeFlagged: true}
		Profile{}.Apply(&m)
		assert.InDelta(t, 75.0, m.Threshold, 1e-9)
		assert.Equal(t, 3, m.MaxCandidates)
		assert.True(t, m.ExcludeFlagged)
	})
}
