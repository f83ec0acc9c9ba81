package builder

import (
	"github.com/figgo/figgo/internal/design"
	"github.com/figgo/figgo/internal/ir"
)

// classifyIcon decides icon eligibility for a raw node.
//
// A childless vector leaf inside the configured size/aspect window is an
// icon. A container is icon-eligible when its subtree (depth-limited) holds
// 1..maxVectorLeaves vector leaves, no text anywhere, and the container
// itself fits the window. Tintable defaults true; the dominant color is
// sampled from the first solid fill or stroke found depth-first.
func (b *treeBuilder) classifyIcon(raw *design.Node, bounds ir.Rect) ir.IconHint {
	if !b.fitsIconWindow(bounds) {
		return ir.IconHint{}
	}

	if raw.IsVector() && len(raw.Children) == 0 {
		return ir.IconHint{
			IsIcon:        true,
			Tintable:      true,
			DominantColor: sampleColor(raw),
		}
	}

	if len(raw.Children) == 0 {
		return ir.IconHint{}
	}

	leaves, hasText := countVectorLeaves(raw, 0, b.cfg.Icon.MaxDepth)
	if hasText || leaves < 1 || leaves > b.cfg.Icon.MaxVectorLeaves {
		return ir.IconHint{}
	}
	return ir.IconHint{
		IsIcon:        true,
		Tintable:      true,
		DominantColor: sampleColor(raw),
	}
}

func (b *treeBuilder) fitsIconWindow(bounds ir.Rect) bool {
	ic := b.cfg.Icon
	if bounds.W < ic.MinSize || bounds.H < ic.MinSize {
		return false
	}
	if bounds.W > ic.MaxSize || bounds.H > ic.MaxSize {
		return false
	}
	return bounds.AspectRatio() <= ic.AspectTolerance
}

// countVectorLeaves counts vector leaves below raw up to maxDepth and
// reports whether any text exists anywhere beneath. Text beyond the depth
// limit still disqualifies.
func countVectorLeaves(raw *design.Node, depth, maxDepth int) (int, bool) {
	leaves := 0
	hasText := false
	for _, child := range raw.Children {
		if child.IsText() {
			return 0, true
		}
		if child.IsVector() && len(child.Children) == 0 {
			if depth < maxDepth {
				leaves++
			}
			continue
		}
		n, t := countVectorLeaves(child, depth+1, maxDepth)
		if t {
			return 0, true
		}
		leaves += n
	}
	return leaves, hasText
}

// sampleColor returns the first solid fill or stroke color found in a
// depth-first walk, or nil when the subtree carries no solid paint.
func sampleColor(raw *design.Node) *ir.Color {
	for _, paints := range [][]design.Paint{raw.Fills, raw.Strokes} {
		for i := range paints {
			p := &paints[i]
			if p.IsVisible() && p.Type == "SOLID" && p.Color != nil {
				return &ir.Color{R: p.Color.R, G: p.Color.G, B: p.Color.B}
			}
		}
	}
	for _, child := range raw.Children {
		if c := sampleColor(child); c != nil {
			return c
		}
	}
	return nil
}
