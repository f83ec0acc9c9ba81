package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8.0, cfg.Icon.MinSize)
	assert.Equal(t, 96.0, cfg.Icon.MaxSize)
	assert.Equal(t, 2.0, cfg.Icon.AspectTolerance)
	assert.Equal(t, 8, cfg.Icon.MaxVectorLeaves)
	assert.Equal(t, 5, cfg.Icon.MaxDepth)
	assert.True(t, cfg.Icon.Strict)
	assert.True(t, cfg.SuppressInheritedBlack)
	assert.Equal(t, 1920.0, cfg.Stage.Width)
	assert.Equal(t, 1080.0, cfg.Stage.Height)
	assert.Equal(t, "src/components", cfg.OutputDir)
}

func TestParsePartialOverride(t *testing.T) {
	cfg, err := Parse([]byte(`
icon: {
	maxSize: 48
	strict:  false
}
stage: width: 1280
`))
	require.NoError(t, err)

	// Overridden fields.
	assert.Equal(t, 48.0, cfg.Icon.MaxSize)
	assert.False(t, cfg.Icon.Strict)
	assert.Equal(t, 1280.0, cfg.Stage.Width)

	// Everything else keeps defaults.
	assert.Equal(t, 8.0, cfg.Icon.MinSize)
	assert.Equal(t, 1080.0, cfg.Stage.Height)
	assert.True(t, cfg.SuppressInheritedBlack)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	_, err := Parse([]byte(`icon: maxSize: -1`))
	assert.Error(t, err)

	_, err = Parse([]byte(`icon: aspectTolerance: 0.5`))
	assert.Error(t, err)

	_, err = Parse([]byte(`icon: { not a cue file`))
	assert.Error(t, err)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figgo.cue")
	require.NoError(t, os.WriteFile(path, []byte(`outputDir: "gen/ui"`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gen/ui", cfg.OutputDir)
}
