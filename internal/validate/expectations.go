package validate

import (
	"sort"
	"strings"

	"github.com/figgo/figgo/internal/classes"
	"github.com/figgo/figgo/internal/codegen"
	"github.com/figgo/figgo/internal/ir"
)

// Expectations are the IR-derived lookup sets shared by every pass. Built
// once per request and reused, never recomputed per node.
type Expectations struct {
	// Texts maps case-folded canonical text to the owning node.
	Texts map[string]*ir.Node

	// BackgroundColors maps normalized color keys to the owning node.
	BackgroundColors map[string]*ir.Node
	// Gradients maps normalized gradient expressions to the owning node.
	Gradients map[string]*ir.Node
	// TextColors maps normalized color keys to the owning TEXT node.
	TextColors map[string]*ir.Node
	// Shadows maps normalized shadow values to the owning node.
	Shadows map[string]*ir.Node

	// Icons maps node ids to the expected asset for that node. Two nodes
	// sharing one asset path stay distinct expectations.
	Icons map[string]IconExpectation

	// IconSubtree holds every node id inside an icon-mapped subtree,
	// including the mapped node itself. Exempt from dimension checks.
	IconSubtree map[string]bool

	// Fonts is the set of font families used by visible TEXT nodes.
	Fonts map[string]bool

	// RootSpaceBetween reports whether the IR root explicitly requests a
	// space-between main-axis distribution.
	RootSpaceBetween bool
}

// IconExpectation ties an expected asset to its IR node.
type IconExpectation struct {
	Asset codegen.IconAsset
	Node  *ir.Node
}

// BuildExpectations walks the visible IR once and precomputes every lookup
// set the passes need.
func BuildExpectations(root *ir.Node, icons map[string]codegen.IconAsset) *Expectations {
	ex := &Expectations{
		Texts:            map[string]*ir.Node{},
		BackgroundColors: map[string]*ir.Node{},
		Gradients:        map[string]*ir.Node{},
		TextColors:       map[string]*ir.Node{},
		Shadows:          map[string]*ir.Node{},
		Icons:            map[string]IconExpectation{},
		IconSubtree:      map[string]bool{},
		Fonts:            map[string]bool{},
	}
	if root == nil {
		return ex
	}
	ex.RootSpaceBetween = root.Layout.JustifyContent == "space-between"

	ir.Walk(root, func(n *ir.Node) bool {
		if !n.VisibleEffective {
			return false // the generator skips the whole subtree
		}

		if asset, ok := icons[n.ID]; ok {
			ex.Icons[n.ID] = IconExpectation{Asset: asset, Node: n}
			ir.Walk(n, func(d *ir.Node) bool {
				ex.IconSubtree[d.ID] = true
				return true
			})
			return true
		}

		if n.Kind == ir.KindText && n.Text != nil {
			content := n.Text.Content
			if content == "" {
				content = strings.Join(n.Text.Lines, " ")
			}
			if content != "" {
				ex.Texts[FoldText(content)] = n
			}
			st := n.Text.Style
			if st.HasColor {
				if key, ok := ir.NormalizeColorValue(st.Color.CSSValue(st.Alpha)); ok {
					ex.TextColors[key] = n
				}
			}
			if st.Family != "" {
				ex.Fonts[st.Family] = true
			}
		}

		if n.Background != nil {
			switch n.Background.Kind {
			case ir.BackgroundGradient:
				ex.Gradients[normalizeGradient(n.Background.CSS)] = n
			case ir.BackgroundSolid:
				if key, ok := ir.NormalizeColorValue(n.Background.Value()); ok {
					ex.BackgroundColors[key] = n
				}
			}
		}

		for _, s := range n.Shadows {
			ex.Shadows[normalizeGradient(classes.ShadowValue(s))] = n
		}
		return true
	})
	return ex
}

// IconPathExpectation groups the icon expectations sharing one import path.
// Nodes holds one entry per expected usage, in node-id order.
type IconPathExpectation struct {
	Path  string
	Asset codegen.IconAsset
	Nodes []*ir.Node
}

// IconsByPath groups the icon expectations by import path, sorted by path,
// so every consumer iterates in one deterministic order.
func (ex *Expectations) IconsByPath() []IconPathExpectation {
	byPath := map[string]*IconPathExpectation{}
	for _, exp := range ex.Icons {
		pe, ok := byPath[exp.Asset.ImportPath]
		if !ok {
			pe = &IconPathExpectation{Path: exp.Asset.ImportPath, Asset: exp.Asset}
			byPath[exp.Asset.ImportPath] = pe
		}
		pe.Nodes = append(pe.Nodes, exp.Node)
	}
	out := make([]IconPathExpectation, 0, len(byPath))
	for _, pe := range byPath {
		sort.Slice(pe.Nodes, func(i, j int) bool { return pe.Nodes[i].ID < pe.Nodes[j].ID })
		out = append(out, *pe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// HasBackgroundValue reports whether a bg token value is expected, using
// normalized comparison for colors and prefix/normalized comparison for
// gradients.
func (ex *Expectations) HasBackgroundValue(value string) bool {
	if key, ok := ir.NormalizeColorValue(value); ok {
		_, present := ex.BackgroundColors[key]
		return present
	}
	norm := normalizeGradient(value)
	if _, present := ex.Gradients[norm]; present {
		return true
	}
	for g := range ex.Gradients {
		if strings.HasPrefix(g, norm) || strings.HasPrefix(norm, g) {
			return true
		}
	}
	return false
}

// FoldText is the normalized, case-folded comparison key for expected text.
func FoldText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// normalizeGradient strips token-level whitespace encodings so underscored
// and spaced forms compare equal.
func normalizeGradient(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
