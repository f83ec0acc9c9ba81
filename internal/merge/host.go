package merge

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// hostFile is one parsed host source. The host is arbitrary hand-written
// TSX, so everything structural (imports, render calls, JSX elements) is
// located on the real syntax tree; only the anchor comments and the
// self-generated tile shapes are matched textually.
type hostFile struct {
	src  []byte
	tree *sitter.Tree
}

func parseHost(source string) (*hostFile, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		return nil, &ConflictError{Code: ErrCodeUnparsableTSX, Message: err.Error()}
	}
	return &hostFile{src: []byte(source), tree: tree}, nil
}

func (h *hostFile) close() {
	if h.tree != nil {
		h.tree.Close()
	}
}

// hostImport is one import statement in the host file.
type hostImport struct {
	name      string // default binding, empty for side-effect imports
	path      string
	startByte int
	endByte   int // exclusive, includes the statement only
}

// imports lists every import statement in source order.
func (h *hostFile) imports() []hostImport {
	var out []hostImport
	root := h.tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "import_statement" {
			continue
		}
		imp := hostImport{
			startByte: int(n.StartByte()),
			endByte:   int(n.EndByte()),
		}
		if src := n.ChildByFieldName("source"); src != nil {
			imp.path = strings.Trim(src.Content(h.src), `"'`)
		}
		for j := 0; j < int(n.NamedChildCount()); j++ {
			c := n.NamedChild(j)
			if c.Type() == "import_clause" {
				for k := 0; k < int(c.NamedChildCount()); k++ {
					if c.NamedChild(k).Type() == "identifier" {
						imp.name = c.NamedChild(k).Content(h.src)
					}
				}
			}
		}
		out = append(out, imp)
	}
	return out
}

// renderArgumentInsertion finds a top-level `.render(<Jsx>...</Jsx>)` call
// and returns the byte offset just before the argument's closing tag.
// Returns -1 when no render call with an insertable argument exists.
func (h *hostFile) renderArgumentInsertion() int {
	offset := -1
	walk(h.tree.RootNode(), func(n *sitter.Node) bool {
		if offset >= 0 {
			return false
		}
		if n.Type() != "call_expression" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Type() != "member_expression" {
			return true
		}
		prop := fn.ChildByFieldName("property")
		if prop == nil || prop.Content(h.src) != "render" {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil {
			return true
		}
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg.Type() == "jsx_element" {
				if closing := lastChildOfType(arg, "jsx_closing_element"); closing != nil {
					offset = int(closing.StartByte())
					return false
				}
			}
			// parenthesized_expression wraps multi-line JSX arguments
			if arg.Type() == "parenthesized_expression" {
				for j := 0; j < int(arg.NamedChildCount()); j++ {
					inner := arg.NamedChild(j)
					if inner.Type() == "jsx_element" {
						if closing := lastChildOfType(inner, "jsx_closing_element"); closing != nil {
							offset = int(closing.StartByte())
							return false
						}
					}
				}
			}
		}
		return true
	})
	return offset
}

// appRootInsertion finds the app-root element (a JSX element whose opening
// tag carries id="root" or id="app") and returns the byte offset before its
// closing tag. Returns -1 when absent.
func (h *hostFile) appRootInsertion() int {
	offset := -1
	walk(h.tree.RootNode(), func(n *sitter.Node) bool {
		if offset >= 0 {
			return false
		}
		if n.Type() != "jsx_element" {
			return true
		}
		opening := n.NamedChild(0)
		if opening == nil || opening.Type() != "jsx_opening_element" {
			return true
		}
		text := opening.Content(h.src)
		if !strings.Contains(text, `id="root"`) && !strings.Contains(text, `id="app"`) {
			return true
		}
		if closing := lastChildOfType(n, "jsx_closing_element"); closing != nil {
			offset = int(closing.StartByte())
			return false
		}
		return true
	})
	return offset
}

func lastChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// walk visits n and its named descendants pre-order. Returning false prunes.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), fn)
	}
}
