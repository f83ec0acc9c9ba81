package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figgo/figgo/internal/merge"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
document: design.json
node: "1:2"
component: HeroCard
outputDir: src/components
host: src/App.tsx
mode: replace
importPath: ./components/HeroCard
overlay:
  x: 192
  y: 108
  width: 960
  height: 540
icons:
  "1:4":
    importPath: ./assets/icon-search.svg
    width: 24
    height: 24
`)
	m, err := LoadManifest(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(dir, "design.json"), m.Document)
	assert.Equal(t, filepath.Join(dir, "src/components"), m.OutputDir)
	assert.Equal(t, filepath.Join(dir, "src/App.tsx"), m.Host)
	assert.Equal(t, "1:2", m.Node)
	assert.Equal(t, "HeroCard", m.Component)
	assert.Equal(t, merge.ModeReplace, m.MergeMode())

	overlay := m.MergeOverlay()
	require.NotNil(t, overlay)
	assert.Equal(t, &merge.Overlay{X: 192, Y: 108, W: 960, H: 540}, overlay)

	require.Contains(t, m.Icons, "1:4")
	assert.Equal(t, "./assets/icon-search.svg", m.Icons["1:4"].ImportPath)
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, `
document: design.json
node: "1:2"
component: HeroCard
`)
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, merge.ModeAppend, m.MergeMode())
	assert.Nil(t, m.MergeOverlay())
	assert.Empty(t, m.Host)
}

func TestLoadManifestMissingFields(t *testing.T) {
	cases := map[string]string{
		"document":  "node: \"1:2\"\ncomponent: HeroCard\n",
		"node":      "document: d.json\ncomponent: HeroCard\n",
		"component": "document: d.json\nnode: \"1:2\"\n",
	}
	for field, content := range cases {
		_, err := LoadManifest(writeManifest(t, content))
		require.Error(t, err, field)
		assert.Contains(t, err.Error(), field)
	}
}

func TestLoadManifestBadMode(t *testing.T) {
	path := writeManifest(t, `
document: design.json
node: "1:2"
component: HeroCard
mode: upsert
`)
	_, err := LoadManifest(path)
	assert.ErrorContains(t, err, "mode")
}

func TestLoadManifestHostRequiresImportPath(t *testing.T) {
	path := writeManifest(t, `
document: design.json
node: "1:2"
component: HeroCard
host: src/App.tsx
`)
	_, err := LoadManifest(path)
	assert.ErrorContains(t, err, "importPath")
}

func TestLoadManifestAbsolutePathsKept(t *testing.T) {
	path := writeManifest(t, `
document: /abs/design.json
node: "1:2"
component: HeroCard
`)
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "/abs/design.json", m.Document)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
