// Package codegen synthesizes TSX source from an IR tree. Output is
// deterministic: one element per line, imports sorted by binding name,
// identical IR always yields identical bytes.
package codegen

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/figgo/figgo/internal/ir"
)

// IconAsset describes one exported vector asset keyed by node id.
type IconAsset struct {
	ImportPath string  `json:"importPath" yaml:"importPath"`
	Width      float64 `json:"width" yaml:"width"`
	Height     float64 `json:"height" yaml:"height"`
}

// Binding is one (localName, importPath) import pair.
type Binding struct {
	LocalName  string `json:"localName"`
	ImportPath string `json:"importPath"`
}

// GeneratedFile is the in-memory generated component, held until validation
// passes.
type GeneratedFile struct {
	Component string    `json:"component"`
	FileName  string    `json:"fileName"`
	Source    string    `json:"source"`
	Bindings  []Binding `json:"bindings"`
}

// Hash returns the content hash of the generated source.
func (g *GeneratedFile) Hash() string {
	return ir.GeneratedHash([]byte(g.Source))
}

// Generate emits the component for an IR tree and its icon-asset map.
func Generate(root *ir.Node, icons map[string]IconAsset, component string) (*GeneratedFile, error) {
	if root == nil {
		return nil, fmt.Errorf("codegen: nil IR root")
	}
	component = Identifier(component)
	if component == "" {
		return nil, fmt.Errorf("codegen: empty component name")
	}

	e := &emitter{icons: icons, bindings: newBindingSet()}
	var body strings.Builder
	e.emitNode(&body, root, 2)

	var out strings.Builder
	for _, b := range e.bindings.sorted() {
		fmt.Fprintf(&out, "import %s from %q;\n", b.LocalName, b.ImportPath)
	}
	if len(e.bindings.byPath) > 0 {
		out.WriteString("\n")
	}
	fmt.Fprintf(&out, "export default function %s() {\n", component)
	out.WriteString("  return (\n")
	out.WriteString(body.String())
	out.WriteString("  );\n")
	out.WriteString("}\n")

	return &GeneratedFile{
		Component: component,
		FileName:  component + ".tsx",
		Source:    out.String(),
		Bindings:  e.bindings.sorted(),
	}, nil
}

type emitter struct {
	icons    map[string]IconAsset
	bindings *bindingSet
}

// emitNode writes one node pre-order, skipping nodes that do not render.
func (e *emitter) emitNode(w *strings.Builder, n *ir.Node, depth int) {
	if !n.VisibleEffective {
		return
	}
	indent := strings.Repeat("  ", depth)

	if asset, ok := e.icons[n.ID]; ok {
		e.emitIcon(w, indent, asset)
		return // never descend into an icon subtree
	}

	if n.Kind == ir.KindText && n.Text != nil {
		content := n.Text.Content
		if content == "" {
			content = strings.Join(n.Text.Lines, " ")
		}
		if content != "" {
			fmt.Fprintf(w, "%s<p className=\"%s\">{\"%s\"}</p>\n",
				indent, classAttr(n), escapeText(content))
			return
		}
		// Empty text falls through to a structural wrapper.
	}

	if len(n.Children) == 0 {
		fmt.Fprintf(w, "%s<div className=\"%s\" />\n", indent, classAttr(n))
		return
	}
	fmt.Fprintf(w, "%s<div className=\"%s\">\n", indent, classAttr(n))
	for _, child := range n.Children {
		e.emitNode(w, child, depth+1)
	}
	fmt.Fprintf(w, "%s</div>\n", indent)
}

// emitIcon writes exactly one image element with enforced minimum size and a
// size-only class string.
func (e *emitter) emitIcon(w *strings.Builder, indent string, asset IconAsset) {
	name := e.bindings.bind(asset.ImportPath)
	width := atLeastOne(asset.Width)
	height := atLeastOne(asset.Height)
	fmt.Fprintf(w, "%s<img src={%s} width={%d} height={%d} className=\"w-[%dpx] h-[%dpx]\" alt=\"\" />\n",
		indent, name, width, height, width, height)
}

func classAttr(n *ir.Node) string {
	return strings.Join(n.Classes, " ")
}

// escapeText escapes a raw JSX string literal payload: braces and quotes in
// copy must not be parseable as markup, so the payload is always emitted as
// {"..."} with backslash and double quote escaped.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func atLeastOne(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}

// bindingSet allocates import bindings, reusing one binding per distinct
// path and de-duplicating names with a suffix counter.
type bindingSet struct {
	byPath map[string]string // import path -> local name
	byName map[string]bool
}

func newBindingSet() *bindingSet {
	return &bindingSet{byPath: map[string]string{}, byName: map[string]bool{}}
}

func (bs *bindingSet) bind(path string) string {
	if name, ok := bs.byPath[path]; ok {
		return name
	}
	base := BindingName(path)
	name := base
	for i := 2; bs.byName[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	bs.byPath[path] = name
	bs.byName[name] = true
	return name
}

func (bs *bindingSet) sorted() []Binding {
	out := make([]Binding, 0, len(bs.byPath))
	for path, name := range bs.byPath {
		out = append(out, Binding{LocalName: name, ImportPath: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocalName < out[j].LocalName })
	return out
}

// BindingName derives a camelCase identifier from an asset filename.
func BindingName(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	name := camelIdentifier(base)
	if name == "" {
		return "asset"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "asset" + name
	}
	return name
}

// Identifier derives a PascalCase component identifier from a display name.
func Identifier(name string) string {
	id := camelIdentifier(name)
	if id == "" {
		return ""
	}
	id = strings.ToUpper(id[:1]) + id[1:]
	if id[0] >= '0' && id[0] <= '9' {
		id = "Component" + id
	}
	return id
}

// camelIdentifier reduces a string to a camelCase ASCII identifier,
// capitalizing at word boundaries.
func camelIdentifier(s string) string {
	var b strings.Builder
	upper := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if upper && b.Len() > 0 {
				b.WriteString(strings.ToUpper(string(r)))
			} else {
				b.WriteRune(r)
			}
			upper = false
		default:
			upper = true
		}
	}
	out := b.String()
	if out == "" {
		return ""
	}
	return strings.ToLower(out[:1]) + out[1:]
}
