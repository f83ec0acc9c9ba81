package builder

import (
	"github.com/figgo/figgo/internal/design"
	"github.com/figgo/figgo/internal/ir"
)

// resolveLayout maps raw auto-layout fields onto canonical flex properties.
// Nodes without auto-layout get LayoutNone and no further fields.
func resolveLayout(raw *design.Node) ir.Layout {
	var mode ir.LayoutMode
	switch raw.LayoutMode {
	case "HORIZONTAL":
		mode = ir.LayoutRow
	case "VERTICAL":
		mode = ir.LayoutColumn
	default:
		return ir.Layout{Mode: ir.LayoutNone}
	}

	return ir.Layout{
		Mode:           mode,
		Gap:            nonNegative(raw.ItemSpacing),
		PadTop:         nonNegative(raw.PaddingTop),
		PadRight:       nonNegative(raw.PaddingRight),
		PadBottom:      nonNegative(raw.PaddingBottom),
		PadLeft:        nonNegative(raw.PaddingLeft),
		Wrap:           raw.LayoutWrap == "WRAP",
		AlignItems:     mapCounterAlign(raw.CounterAxisAlignItems),
		JustifyContent: mapPrimaryAlign(raw.PrimaryAxisAlignItems),
	}
}

// mapPrimaryAlign maps the primary-axis alignment onto a justify-content
// keyword. Unrecognized values map to empty so no token is emitted.
func mapPrimaryAlign(v string) string {
	switch v {
	case "MIN", "":
		return "flex-start"
	case "CENTER":
		return "center"
	case "MAX":
		return "flex-end"
	case "SPACE_BETWEEN":
		return "space-between"
	default:
		return ""
	}
}

// mapCounterAlign maps the counter-axis alignment onto an align-items
// keyword.
func mapCounterAlign(v string) string {
	switch v {
	case "MIN", "":
		return "flex-start"
	case "CENTER":
		return "center"
	case "MAX":
		return "flex-end"
	case "BASELINE":
		return "baseline"
	default:
		return ""
	}
}
