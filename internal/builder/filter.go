package builder

import "github.com/figgo/figgo/internal/ir"

// FilterVisible removes subtrees that are provably invisible and contribute
// nothing. The pass is conservative: a node survives when it has effective
// visibility, any visible text, fill, stroke or effect, a clip of its own,
// or any surviving child. Ambiguity keeps the node. Surviving siblings are
// reindexed. The root is never removed.
func FilterVisible(root *ir.Node) *ir.Node {
	if root == nil {
		return nil
	}
	filterChildren(root)
	return root
}

func filterChildren(n *ir.Node) {
	kept := n.Children[:0]
	for _, child := range n.Children {
		filterChildren(child)
		if keepNode(child) {
			kept = append(kept, child)
		}
	}
	n.Children = kept
	ir.Reindex(n.Children)
}

func keepNode(n *ir.Node) bool {
	if n.VisibleEffective {
		return true
	}
	if len(n.Children) > 0 {
		return true
	}
	if n.Text != nil && n.Text.Content != "" {
		return true
	}
	if n.Background != nil || n.HasVisibleFill() {
		return true
	}
	if n.Stroke != nil && n.Stroke.Weight > 0 && n.Stroke.Alpha > 0 {
		return true
	}
	if len(n.Shadows) > 0 || n.Clips {
		return true
	}
	return false
}
