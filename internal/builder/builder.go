// Package builder lowers a raw design document subtree into the canonical
// IR. Build is a pure function of its inputs: the same document, target and
// config always yield the same tree.
package builder

import (
	"github.com/figgo/figgo/internal/classes"
	"github.com/figgo/figgo/internal/config"
	"github.com/figgo/figgo/internal/design"
	"github.com/figgo/figgo/internal/ir"
)

// Opacity below this threshold renders nothing.
const minVisibleOpacity = 0.01

// inherited is the immutable accumulator passed down the depth-first
// descent. A new value is derived at each level; nothing ambient.
type inherited struct {
	visible bool
	clip    *ir.Rect   // innermost inherited clip rect, nil when unclipped
	fills   []ir.Paint // background list flowing down from group wrappers
}

// Build constructs the IR tree for the subtree rooted at targetID.
func Build(doc *design.Document, targetID string, cfg config.Config) (*ir.Node, error) {
	if doc == nil || doc.Root == nil {
		return nil, &InputError{Code: ErrCodeEmptyDoc, Message: "document has no root node"}
	}
	target := design.FindNode(doc.Root, targetID)
	if target == nil {
		return nil, NewNotFoundError(targetID)
	}

	origin := target.Bounds()
	b := &treeBuilder{cfg: cfg, originX: origin.X, originY: origin.Y}

	root := b.buildNode(target, nil, inherited{visible: true})
	root.IsRoot = true
	root.AbsolutePos = false
	// Root position tokens are re-synthesized without the absolute flag.
	root.Classes = classes.Synthesize(root)
	return root, nil
}

type treeBuilder struct {
	cfg     config.Config
	originX float64
	originY float64
}

// buildNode lowers one raw node and its subtree. parent is nil for the root.
func (b *treeBuilder) buildNode(raw *design.Node, parent *design.Node, inh inherited) *ir.Node {
	bounds := rectFromDesign(raw.Bounds())

	n := &ir.Node{
		ID:         raw.ID,
		Name:       raw.Name,
		Type:       raw.Type,
		Kind:       kindOf(raw),
		OwnVisible: raw.IsVisible(),
		Bounds:     bounds,
		RelBounds:  bounds.Translate(b.originX, b.originY),
		Opacity:    raw.EffectiveOpacity(),
		Clips:      raw.ClipsContent,
		Rotation:   raw.Rotation,
	}

	// Effective visibility: own flag, ancestors, opacity, inherited clip.
	n.VisibleEffective = n.OwnVisible && inh.visible && n.Opacity > minVisibleOpacity
	if n.VisibleEffective && inh.clip != nil {
		n.VisibleEffective = bounds.Intersects(*inh.clip)
	}

	// Paints, stroke, radii, shadows.
	b.resolvePaints(n, raw, inh)
	n.Stroke = resolveStroke(raw)
	n.Radii = resolveRadii(raw)
	n.Shadows = resolveShadows(raw)

	// Text canonicalization.
	if raw.IsText() {
		n.Text = buildText(raw)
	}

	// Layout and positioning are determined independently.
	n.Layout = resolveLayout(raw)
	n.AbsolutePos = isAbsolute(raw, parent)

	// Icon classification.
	n.Icon = b.classifyIcon(raw, bounds)

	// Children, original order preserved; reindex after the subtree is done.
	next := b.childContext(raw, n, inh)
	for _, child := range raw.Children {
		n.Children = append(n.Children, b.buildNode(child, raw, next))
	}
	ir.Reindex(n.Children)
	assignStacking(n.Children)

	n.Classes = classes.Synthesize(n)
	return n
}

// childContext derives the accumulator for raw's children.
func (b *treeBuilder) childContext(raw *design.Node, n *ir.Node, inh inherited) inherited {
	next := inherited{
		visible: inh.visible && n.OwnVisible,
		clip:    inh.clip,
		fills:   nil,
	}
	if raw.ClipsContent {
		clip := n.Bounds
		if inh.clip != nil {
			clip = ir.Intersect(*inh.clip, n.Bounds)
		}
		next.clip = &clip
	}
	// Group wrappers do not render their own paints; their resolved fill
	// list flows down as an inherited background list instead.
	if raw.Type == "GROUP" {
		if own := resolveOwnFills(raw); len(own) > 0 {
			for i := range own {
				own[i].Inherited = true
			}
			next.fills = own
		} else {
			next.fills = inh.fills
		}
	}
	return next
}

func kindOf(raw *design.Node) ir.NodeKind {
	switch {
	case raw.IsText():
		return ir.KindText
	case raw.IsVector() && len(raw.Children) == 0:
		return ir.KindVector
	case raw.Type == "GROUP" || raw.Type == "INSTANCE" || raw.Type == "COMPONENT":
		return ir.KindGroup
	default:
		return ir.KindContainer
	}
}

// isAbsolute decides CSS positioning: explicit absolute positioning inside
// an auto-layout parent, or any child of a freeform (non-auto-layout)
// container.
func isAbsolute(raw *design.Node, parent *design.Node) bool {
	if parent == nil {
		return false
	}
	if raw.LayoutPositioning == "ABSOLUTE" {
		return true
	}
	return parent.LayoutMode != "HORIZONTAL" && parent.LayoutMode != "VERTICAL"
}

// assignStacking gives an absolutely-positioned child that overlaps an
// earlier sibling an explicit stacking level, following document paint order
// so later siblings render on top. Non-overlapping children keep the default
// stacking context. Classes are re-synthesized for the levels assigned here.
func assignStacking(children []*ir.Node) {
	level := 0
	for i, c := range children {
		if !c.AbsolutePos {
			continue
		}
		for _, prev := range children[:i] {
			if c.Bounds.Intersects(prev.Bounds) {
				level++
				c.ZIndex = level
				c.Classes = classes.Synthesize(c)
				break
			}
		}
	}
}

func rectFromDesign(r design.Rect) ir.Rect {
	return ir.Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height}
}
