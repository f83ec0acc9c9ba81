package builder

import (
	"fmt"
	"math"
	"strings"

	"github.com/figgo/figgo/internal/design"
	"github.com/figgo/figgo/internal/ir"
)

// resolvePaints computes the node's effective fill list and derives the
// single canonical background.
//
// A node's own paint list always wins. Inherited background lists are
// honored only on container-type nodes: fully on clipping containers, and
// with the opaque pure-black suppression heuristic on non-clipping layout
// wrappers (an opaque black group fill behind a transparent wrapper is
// treated as accidental; see Config.SuppressInheritedBlack).
func (b *treeBuilder) resolvePaints(n *ir.Node, raw *design.Node, inh inherited) {
	own := resolveOwnFills(raw)
	if raw.Type == "GROUP" {
		// Groups pass their paints to children instead of rendering them.
		own = nil
	}

	effective := own
	if len(effective) == 0 && raw.IsContainer() && len(inh.fills) > 0 {
		if raw.ClipsContent {
			effective = inh.fills
		} else {
			for _, f := range inh.fills {
				if b.cfg.SuppressInheritedBlack && f.Kind == ir.BackgroundSolid && f.Color.IsOpaqueBlack(f.Alpha) {
					continue
				}
				effective = append(effective, f)
			}
		}
	}

	n.Fills = effective

	// TEXT fills are the glyph color, never a background.
	if raw.IsText() {
		return
	}
	n.Background = deriveBackground(effective)
}

// resolveOwnFills converts the node's visible paints to resolved IR paints,
// preserving order.
func resolveOwnFills(raw *design.Node) []ir.Paint {
	var out []ir.Paint
	for i := range raw.Fills {
		p := &raw.Fills[i]
		if !p.IsVisible() {
			continue
		}
		if resolved, ok := resolvePaint(p); ok {
			out = append(out, resolved)
		}
	}
	return out
}

func resolvePaint(p *design.Paint) (ir.Paint, bool) {
	switch p.Type {
	case "SOLID":
		if p.Color == nil {
			return ir.Paint{}, false
		}
		return ir.Paint{
			Kind:  ir.BackgroundSolid,
			Color: ir.Color{R: p.Color.R, G: p.Color.G, B: p.Color.B},
			Alpha: p.Color.A * p.EffectiveOpacity(),
		}, true
	case "GRADIENT_LINEAR", "GRADIENT_RADIAL", "GRADIENT_ANGULAR":
		css := gradientCSS(p)
		if css == "" {
			return ir.Paint{}, false
		}
		return ir.Paint{Kind: ir.BackgroundGradient, CSS: css}, true
	default:
		// IMAGE and exotic paints do not resolve to a background.
		return ir.Paint{}, false
	}
}

// deriveBackground picks the topmost paint as the canonical background.
// Paint lists render bottom-up, so the last entry is on top.
func deriveBackground(fills []ir.Paint) *ir.Background {
	for i := len(fills) - 1; i >= 0; i-- {
		f := fills[i]
		switch f.Kind {
		case ir.BackgroundGradient:
			return &ir.Background{Kind: ir.BackgroundGradient, CSS: f.CSS}
		case ir.BackgroundSolid:
			if f.Alpha <= 0 {
				continue
			}
			return &ir.Background{Kind: ir.BackgroundSolid, Color: f.Color, Alpha: f.Alpha}
		}
	}
	return nil
}

// gradientCSS renders a gradient paint as a CSS expression with underscores
// for spaces so it survives as a single class token value.
func gradientCSS(p *design.Paint) string {
	if len(p.GradientStops) == 0 {
		return ""
	}
	stops := make([]string, 0, len(p.GradientStops))
	for _, s := range p.GradientStops {
		c := ir.Color{R: s.Color.R, G: s.Color.G, B: s.Color.B}
		pct := int(math.Round(s.Position * 100))
		stops = append(stops, fmt.Sprintf("%s_%d%%", c.CSSValue(s.Color.A*p.EffectiveOpacity()), pct))
	}
	switch p.Type {
	case "GRADIENT_RADIAL":
		return fmt.Sprintf("radial-gradient(%s)", strings.Join(stops, ","))
	case "GRADIENT_ANGULAR":
		return fmt.Sprintf("conic-gradient(%s)", strings.Join(stops, ","))
	default:
		return fmt.Sprintf("linear-gradient(%sdeg,%s)", gradientAngle(p), strings.Join(stops, ","))
	}
}

// gradientAngle derives the CSS angle from the first two gradient handles.
// Missing handles default to a top-to-bottom gradient.
func gradientAngle(p *design.Paint) string {
	if len(p.GradientHandlePositions) < 2 {
		return "180"
	}
	a, b := p.GradientHandlePositions[0], p.GradientHandlePositions[1]
	rad := math.Atan2(b.Y-a.Y, b.X-a.X)
	deg := rad*180/math.Pi + 90 // CSS angles are clockwise from north
	deg = math.Mod(deg+360, 360)
	return fmt.Sprintf("%d", int(math.Round(deg)))
}

// resolveStroke picks the first visible solid stroke for color and weight.
func resolveStroke(raw *design.Node) *ir.Stroke {
	if raw.StrokeWeight <= 0 {
		return nil
	}
	for i := range raw.Strokes {
		p := &raw.Strokes[i]
		if !p.IsVisible() || p.Type != "SOLID" || p.Color == nil {
			continue
		}
		return &ir.Stroke{
			Color:  ir.Color{R: p.Color.R, G: p.Color.G, B: p.Color.B},
			Alpha:  p.Color.A * p.EffectiveOpacity(),
			Weight: raw.StrokeWeight,
		}
	}
	return nil
}

// resolveRadii canonicalizes corner radii: per-corner values win over the
// uniform radius.
func resolveRadii(raw *design.Node) ir.CornerRadii {
	if len(raw.RectangleCornerRadii) == 4 {
		return ir.CornerRadii{
			TL: nonNegative(raw.RectangleCornerRadii[0]),
			TR: nonNegative(raw.RectangleCornerRadii[1]),
			BR: nonNegative(raw.RectangleCornerRadii[2]),
			BL: nonNegative(raw.RectangleCornerRadii[3]),
		}
	}
	r := nonNegative(raw.CornerRadius)
	return ir.CornerRadii{TL: r, TR: r, BR: r, BL: r}
}

// resolveShadows converts visible shadow effects in order.
func resolveShadows(raw *design.Node) []ir.Shadow {
	var out []ir.Shadow
	for i := range raw.Effects {
		e := &raw.Effects[i]
		if !e.IsVisible() || !e.IsShadow() {
			continue
		}
		out = append(out, ir.Shadow{
			OffsetX: e.Offset.X,
			OffsetY: e.Offset.Y,
			Radius:  e.Radius,
			Spread:  e.Spread,
			Color:   ir.Color{R: e.Color.R, G: e.Color.G, B: e.Color.B},
			Alpha:   e.Color.A,
			Inset:   e.Type == "INNER_SHADOW",
		})
	}
	return out
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
