// Package merge installs and updates generated component usages inside a
// host file's anchor-delimited mount region, idempotently: merging the same
// inputs twice produces byte-identical output the second time.
package merge

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/figgo/figgo/internal/config"
)

// Anchor markers delimiting the mount region.
const (
	BeginMarker = "{/* figgo:begin */}"
	EndMarker   = "{/* figgo:end */}"
	// legacyMarker is the single-marker form older versions emitted. It is
	// normalized to the paired form on first encounter.
	legacyMarker = "{/* figgo:mount */}"
)

// Mode selects how the mount region is updated.
type Mode string

const (
	// ModeAppend adds the new usage alongside existing tiles.
	ModeAppend Mode = "append"
	// ModeReplace clears the region and removes other generated-component
	// references elsewhere in the file.
	ModeReplace Mode = "replace"
)

// Overlay is an optional placement rectangle in reference-stage pixels. The
// usage is wrapped in a percentage-positioned absolute container.
type Overlay struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Options configure one merge request.
type Options struct {
	Component  string // component identifier, e.g. "HeroCard"
	ImportPath string // host-relative module path, e.g. "./components/HeroCard"
	Mode       Mode
	Overlay    *Overlay
	Stage      config.StageConfig
	// HostDir is the host file's directory on disk; empty disables
	// best-effort module resolution during ghost cleanup.
	HostDir string
}

// Merge installs or updates the component usage in the host source and
// returns the rewritten text. The input string is never persisted by this
// package; on error the caller keeps the original file untouched.
func Merge(host string, opts Options) (string, error) {
	if opts.Mode == "" {
		opts.Mode = ModeAppend
	}
	text, err := normalizeAnchors(host)
	if err != nil {
		return "", err
	}
	if !strings.Contains(text, BeginMarker) {
		text, err = placeAnchors(text)
		if err != nil {
			return "", err
		}
	}
	text, err = ensureImport(text, opts.Component, opts.ImportPath)
	if err != nil {
		return "", err
	}
	text, err = updateRegion(text, opts)
	if err != nil {
		return "", err
	}
	if opts.Mode == ModeReplace {
		text, err = removeOtherGenerated(text, opts)
		if err != nil {
			return "", err
		}
	}
	return ghostCleanup(text, opts)
}

// normalizeAnchors converts the legacy single-marker form to the paired
// form and collapses duplicate consecutive markers.
func normalizeAnchors(text string) (string, error) {
	lines := strings.Split(text, "\n")
	var out []string
	prevMarker := ""
	prevLegacy := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == legacyMarker {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			if prevLegacy || prevMarker == BeginMarker {
				continue // duplicate consecutive marker
			}
			out = append(out, indent+BeginMarker, indent+EndMarker)
			prevMarker = EndMarker
			prevLegacy = true
			continue
		}
		if trimmed == BeginMarker || trimmed == EndMarker {
			if trimmed == prevMarker {
				continue // duplicate consecutive marker
			}
			prevMarker = trimmed
			prevLegacy = false
			out = append(out, line)
			continue
		}
		if trimmed != "" {
			prevMarker = ""
			prevLegacy = false
		}
		out = append(out, line)
	}
	text = strings.Join(out, "\n")

	begins := strings.Count(text, BeginMarker)
	ends := strings.Count(text, EndMarker)
	if begins != ends {
		return "", &ConflictError{Code: ErrCodeBadAnchors,
			Message: fmt.Sprintf("unbalanced mount markers (%d begin, %d end)", begins, ends)}
	}
	if begins > 1 {
		return "", &ConflictError{Code: ErrCodeBadAnchors,
			Message: fmt.Sprintf("multiple mount regions (%d)", begins)}
	}
	if begins == 1 && strings.Index(text, BeginMarker) > strings.Index(text, EndMarker) {
		return "", &ConflictError{Code: ErrCodeBadAnchors, Message: "end marker precedes begin marker"}
	}
	return text, nil
}

// placeAnchors inserts a fresh marker pair: inside a top-level render
// call's argument, else before the app-root closing tag, else appended as a
// minimal wrapper construct.
func placeAnchors(text string) (string, error) {
	h, err := parseHost(text)
	if err != nil {
		return "", err
	}
	defer h.close()

	offset := h.renderArgumentInsertion()
	if offset < 0 {
		offset = h.appRootInsertion()
	}
	if offset >= 0 {
		// The offset sits right after the closing tag's leading indent, so
		// the first marker inherits that indent and the rest is replayed.
		indent := lineIndentAt(text, offset)
		block := BeginMarker + "\n" + indent + EndMarker + "\n" + indent
		return text[:offset] + block + text[offset:], nil
	}

	// Last resort: a minimal wrapper construct holding the markers.
	var b strings.Builder
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\nexport function GeneratedMount() {\n")
	b.WriteString("  return (\n")
	b.WriteString("    <div>\n")
	b.WriteString("      " + BeginMarker + "\n")
	b.WriteString("      " + EndMarker + "\n")
	b.WriteString("    </div>\n")
	b.WriteString("  );\n")
	b.WriteString("}\n")
	return b.String(), nil
}

// lineIndentAt returns the leading whitespace of the line containing byte
// offset.
func lineIndentAt(text string, offset int) string {
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	line := text[start:]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// ensureImport guarantees exactly one import binding the component to its
// module path, inserted after the last existing import.
func ensureImport(text, component, importPath string) (string, error) {
	if component == "" || importPath == "" {
		return text, nil
	}
	h, err := parseHost(text)
	if err != nil {
		return "", err
	}
	defer h.close()

	stmt := fmt.Sprintf("import %s from %q;", component, importPath)
	imports := h.imports()
	for _, imp := range imports {
		if imp.name == component {
			if imp.path == importPath {
				return text, nil
			}
			// Self-generated import whose path moved: rewrite in place.
			return text[:imp.startByte] + stmt + text[imp.endByte:], nil
		}
	}
	if len(imports) > 0 {
		last := imports[len(imports)-1]
		return text[:last.endByte] + "\n" + stmt + text[last.endByte:], nil
	}
	return stmt + "\n" + text, nil
}

// tileRe recognizes one self-generated tile line inside the mount region.
var tileRe = regexp.MustCompile(`^\s*(?:<div className="[^"]*">)?<([A-Z]\w*) />(?:</div>)?$`)

// updateRegion rewrites the tile list between the markers.
func updateRegion(text string, opts Options) (string, error) {
	lines := strings.Split(text, "\n")
	begin, end := -1, -1
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case BeginMarker:
			begin = i
		case EndMarker:
			if end < 0 {
				end = i
			}
		}
	}
	if begin < 0 || end < 0 || end < begin {
		return "", &ConflictError{Code: ErrCodeNoMountPoint, Message: "mount region not found after normalization"}
	}

	indent := lines[begin][:len(lines[begin])-len(strings.TrimLeft(lines[begin], " \t"))]
	tile := indent + tileText(opts)

	var tiles []string
	if opts.Mode == ModeAppend {
		for _, line := range lines[begin+1 : end] {
			if tileRe.MatchString(line) && line != tile {
				tiles = append(tiles, line)
			}
		}
	}
	tiles = append(tiles, tile)

	out := append([]string{}, lines[:begin+1]...)
	out = append(out, tiles...)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n"), nil
}

// tileText renders the usage, optionally wrapped in a percentage-positioned
// absolute container derived from the overlay rect and stage size.
func tileText(opts Options) string {
	usage := fmt.Sprintf("<%s />", opts.Component)
	o := opts.Overlay
	if o == nil {
		return usage
	}
	sw, sh := opts.Stage.Width, opts.Stage.Height
	if sw <= 0 {
		sw = 1
	}
	if sh <= 0 {
		sh = 1
	}
	return fmt.Sprintf(`<div className="absolute left-[%s%%] top-[%s%%] w-[%s%%] h-[%s%%]">%s</div>`,
		pct(o.X, sw), pct(o.Y, sh), pct(o.W, sw), pct(o.H, sh), usage)
}

func pct(v, total float64) string {
	s := fmt.Sprintf("%.2f", v/total*100)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" {
		s = "0"
	}
	return s
}

// removeOtherGenerated removes other generated-component imports and their
// usages anywhere in the file. Unrelated imports are untouched; a generated
// component is recognized by importing from the same components directory.
func removeOtherGenerated(text string, opts Options) (string, error) {
	h, err := parseHost(text)
	if err != nil {
		return "", err
	}
	dir := path.Dir(opts.ImportPath)
	var stale []string
	for _, imp := range h.imports() {
		if imp.name == "" || imp.name == opts.Component {
			continue
		}
		if path.Dir(imp.path) == dir {
			stale = append(stale, imp.name)
		}
	}
	h.close()

	for _, name := range stale {
		text = removeImportOf(text, name)
		text = removeUsageLines(text, name)
	}
	return text, nil
}

// removeImportOf deletes the import statement binding name, via a fresh
// parse so offsets stay exact.
func removeImportOf(text, name string) string {
	h, err := parseHost(text)
	if err != nil {
		return text
	}
	defer h.close()
	for _, imp := range h.imports() {
		if imp.name != name {
			continue
		}
		end := imp.endByte
		if end < len(text) && text[end] == '\n' {
			end++
		}
		start := imp.startByte
		for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
			start--
		}
		return text[:start] + text[end:]
	}
	return text
}

// removeUsageLines deletes self-generated usage lines of the component.
func removeUsageLines(text, name string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if m := tileRe.FindStringSubmatch(line); m != nil && m[1] == name {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
