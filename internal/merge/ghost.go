package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Module extensions tried when resolving a relative import on disk.
var resolveExtensions = []string{"", ".tsx", ".ts", ".jsx", ".js"}

// Asset extensions recognized as side-effect imports; never removed by
// ghost cleanup.
var sideEffectExtensions = []string{".css", ".scss", ".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp"}

// stylesheetImport is the known stylesheet side-effect import restored when
// its file exists but the line is missing.
const stylesheetImport = `import "./index.css";`

// ghostCleanup removes relative imports whose target module cannot be
// resolved on disk, drops mount-region tiles whose identifier is no longer
// imported, and restores the stylesheet import. Resolution is best-effort:
// without a host directory, or on any uncertainty, imports are kept.
func ghostCleanup(text string, opts Options) (string, error) {
	if opts.HostDir != "" {
		text = removeGhostImports(text, opts.HostDir)
		text = restoreStylesheet(text, opts.HostDir)
	}
	return removeOrphanTiles(text)
}

func removeGhostImports(text, hostDir string) string {
	for {
		h, err := parseHost(text)
		if err != nil {
			return text
		}
		ghost := ""
		for _, imp := range h.imports() {
			if !strings.HasPrefix(imp.path, "./") && !strings.HasPrefix(imp.path, "../") {
				continue
			}
			if isSideEffectAsset(imp.path) {
				continue
			}
			if resolvesOnDisk(hostDir, imp.path) {
				continue
			}
			ghost = imp.name
			if ghost == "" {
				// Bindingless non-asset import; leave it alone rather than
				// guess.
				continue
			}
			break
		}
		h.close()
		if ghost == "" {
			return text
		}
		text = removeImportOf(text, ghost)
		text = removeUsageLines(text, ghost)
	}
}

func isSideEffectAsset(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range sideEffectExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func resolvesOnDisk(hostDir, importPath string) bool {
	base := filepath.Join(hostDir, filepath.FromSlash(importPath))
	for _, ext := range resolveExtensions {
		if fileExists(base + ext) {
			return true
		}
	}
	for _, ext := range resolveExtensions[1:] {
		if fileExists(filepath.Join(base, "index"+ext)) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// removeOrphanTiles drops mount-region tiles whose referenced identifier is
// no longer imported.
func removeOrphanTiles(text string) (string, error) {
	h, err := parseHost(text)
	if err != nil {
		return "", err
	}
	imported := map[string]bool{}
	for _, imp := range h.imports() {
		if imp.name != "" {
			imported[imp.name] = true
		}
	}
	h.close()

	lines := strings.Split(text, "\n")
	inRegion := false
	out := lines[:0]
	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case BeginMarker:
			inRegion = true
		case EndMarker:
			inRegion = false
		default:
			if inRegion {
				if m := tileRe.FindStringSubmatch(line); m != nil && !imported[m[1]] {
					continue
				}
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), nil
}

// restoreStylesheet re-inserts the stylesheet side-effect import when the
// file exists on disk but the import line is missing.
func restoreStylesheet(text, hostDir string) string {
	if strings.Contains(text, stylesheetImport) {
		return text
	}
	if !fileExists(filepath.Join(hostDir, "index.css")) {
		return text
	}
	h, err := parseHost(text)
	if err != nil {
		return text
	}
	defer h.close()
	imports := h.imports()
	if len(imports) == 0 {
		return stylesheetImport + "\n" + text
	}
	last := imports[len(imports)-1]
	return fmt.Sprintf("%s\n%s%s", text[:last.endByte], stylesheetImport, text[last.endByte:])
}
