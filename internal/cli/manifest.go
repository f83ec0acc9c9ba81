package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/figgo/figgo/internal/codegen"
	"github.com/figgo/figgo/internal/merge"
	"github.com/figgo/figgo/internal/source"
)

// Manifest is the YAML job file describing one compilation request: which
// document, which node, what to call it, which icon assets to map, and
// optionally which host file to merge into.
type Manifest struct {
	Document  string `yaml:"document"`
	Node      string `yaml:"node"`
	Component string `yaml:"component"`
	OutputDir string `yaml:"outputDir"`

	Host       string         `yaml:"host,omitempty"`
	Mode       string         `yaml:"mode,omitempty"` // "append" (default) | "replace"
	ImportPath string         `yaml:"importPath,omitempty"`
	Overlay    *OverlayConfig `yaml:"overlay,omitempty"`

	Icons map[string]codegen.IconAsset `yaml:"icons,omitempty"`
}

// OverlayConfig positions the merged tile absolutely on the stage, in
// stage pixels.
type OverlayConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// LoadManifest reads and validates a job manifest. Relative paths inside
// the manifest resolve against the manifest's own directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.resolvePaths(filepath.Dir(path))
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Document == "" {
		return fmt.Errorf("manifest: document is required")
	}
	if m.Node == "" {
		return fmt.Errorf("manifest: node is required")
	}
	if m.Component == "" {
		return fmt.Errorf("manifest: component is required")
	}
	switch m.Mode {
	case "", string(merge.ModeAppend), string(merge.ModeReplace):
	default:
		return fmt.Errorf("manifest: mode must be %q or %q", merge.ModeAppend, merge.ModeReplace)
	}
	if m.Host != "" && m.ImportPath == "" {
		return fmt.Errorf("manifest: importPath is required when host is set")
	}
	return nil
}

func (m *Manifest) resolvePaths(dir string) {
	m.Document = resolve(dir, m.Document)
	if m.OutputDir != "" {
		m.OutputDir = resolve(dir, m.OutputDir)
	}
	if m.Host != "" {
		m.Host = resolve(dir, m.Host)
	}
}

// MergeMode returns the effective mode, defaulting to append.
func (m *Manifest) MergeMode() merge.Mode {
	if m.Mode == "" {
		return merge.ModeAppend
	}
	return merge.Mode(m.Mode)
}

// MergeOverlay converts the manifest overlay, nil when absent.
func (m *Manifest) MergeOverlay() *merge.Overlay {
	if m.Overlay == nil {
		return nil
	}
	return &merge.Overlay{
		X: m.Overlay.X,
		Y: m.Overlay.Y,
		W: m.Overlay.Width,
		H: m.Overlay.Height,
	}
}

// Source returns the manifest-backed local adapter serving the document and
// icon assets.
func (m *Manifest) Source() *source.Local {
	return &source.Local{DocumentPath: m.Document, Assets: m.Icons}
}

// IconNodeIDs lists the icon-asset node ids in sorted order.
func (m *Manifest) IconNodeIDs() []string {
	ids := make([]string, 0, len(m.Icons))
	for id := range m.Icons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
