package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/figgo/figgo/internal/classes"
	"github.com/figgo/figgo/internal/ir"
)

// Assertion passes never mutate; each returns findings identifying the
// offending node.

func assertIcons(d *document, ex *Expectations) []Finding {
	var findings []Finding

	imports := d.imports()
	images := d.imageElements()

	expectedPaths := map[string]bool{}
	for _, pe := range ex.IconsByPath() {
		if pe.Path == "" {
			continue // icon autofix already reported the missing path
		}
		expectedPaths[pe.Path] = true
		node := pe.Nodes[0]

		var binding string
		importCount := 0
		for _, imp := range imports {
			if imp.path == pe.Path {
				binding = imp.name
				importCount++
			}
		}
		if importCount == 0 {
			findings = append(findings, nodeFinding(ErrIconMissing, "icon-usage",
				fmt.Sprintf("expected icon import %q is missing", pe.Path), node))
			continue
		}
		if importCount > 1 {
			findings = append(findings, nodeFinding(ErrIconDuplicate, "icon-usage",
				fmt.Sprintf("icon %q imported %d times", pe.Path, importCount), node))
		}

		usages := 0
		for _, img := range images {
			if img.binding != binding {
				continue
			}
			usages++
			w, h := minOne(pe.Asset.Width), minOne(pe.Asset.Height)
			if img.width != w || img.height != h {
				findings = append(findings, nodeFinding(ErrIconSizeMismatch, "icon-usage",
					fmt.Sprintf("icon %q rendered at %dx%d, asset map says %dx%d",
						pe.Path, img.width, img.height, w, h), node))
			}
		}
		want := len(pe.Nodes)
		switch {
		case usages < want:
			findings = append(findings, nodeFinding(ErrIconMissing, "icon-usage",
				fmt.Sprintf("icon %q used %d time(s), expected %d", pe.Path, usages, want), node))
		case usages > want:
			findings = append(findings, nodeFinding(ErrIconDuplicate, "icon-usage",
				fmt.Sprintf("icon %q used %d time(s), expected %d", pe.Path, usages, want), node))
		}
	}

	// No unexpected icon imports.
	for _, imp := range imports {
		if !isAssetPath(imp.path) {
			continue
		}
		if !expectedPaths[imp.path] {
			findings = append(findings, Finding{
				Code:    ErrIconUnexpectedImport,
				Rule:    "icon-usage",
				Message: fmt.Sprintf("asset import %q has no counterpart in the icon map", imp.path),
			})
		}
	}
	return findings
}

func isAssetPath(path string) bool {
	for _, ext := range []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		if strings.HasSuffix(strings.ToLower(path), ext) {
			return true
		}
	}
	return false
}

func assertText(d *document, ex *Expectations) []Finding {
	var findings []Finding

	present := map[string]bool{}
	for _, tp := range d.textPayloads() {
		present[FoldText(tp.content)] = true
	}
	// Common text-bearing attributes count toward coverage.
	for _, line := range d.lines {
		for _, m := range attrTextRe.FindAllStringSubmatch(line, -1) {
			if m[1] != "" {
				present[FoldText(m[1])] = true
			}
		}
	}

	for folded, n := range ex.Texts {
		if !present[folded] {
			findings = append(findings, nodeFinding(ErrMissingText, "text-coverage",
				fmt.Sprintf("expected text %q does not appear in the output", n.Text.Content), n))
		}
	}
	for _, tp := range d.textPayloads() {
		if _, ok := ex.Texts[FoldText(tp.content)]; !ok {
			findings = append(findings, Finding{
				Code:    ErrUnexpectedText,
				Rule:    "no-extra-text",
				Message: fmt.Sprintf("output text %q has no counterpart in the IR", tp.content),
			})
		}
	}
	return findings
}

func assertDimensions(d *document, ex *Expectations, root *ir.Node) []Finding {
	var findings []Finding
	lists := d.classLists()

	ir.Walk(root, func(n *ir.Node) bool {
		if !n.VisibleEffective {
			return false // generator skipped the whole subtree
		}
		if ex.IconSubtree[n.ID] {
			return false // icons render as a single sized image
		}
		if n.LayoutOnly() && !n.IsRoot {
			return true // wrappers are exempt, children are not
		}

		size := classes.SizeTokens(n.Bounds)
		want := size
		if n.AbsolutePos {
			want = append(append([]string{}, size...),
				fmt.Sprintf("left-[%dpx]", int(math.Round(n.RelBounds.X))),
				fmt.Sprintf("top-[%dpx]", int(math.Round(n.RelBounds.Y))),
			)
		}

		if !anyListContains(lists, want) {
			if n.Kind == ir.KindText && anyListContains(lists, []string{"w-fit"}) {
				return true // TEXT may satisfy sizing via auto-size tokens
			}
			code := ErrDimensionMismatch
			rule := "dimensions"
			if n.AbsolutePos && anyListContains(lists, size) {
				code = ErrPositionMismatch
				rule = "position"
			}
			findings = append(findings, nodeFinding(code, rule,
				fmt.Sprintf("no element carries %s", strings.Join(want, " ")), n))
		}
		return true
	})
	return findings
}

func anyListContains(lists []string, want []string) bool {
	for _, cl := range lists {
		tokens := map[string]bool{}
		for _, t := range strings.Fields(cl) {
			tokens[t] = true
		}
		ok := true
		for _, w := range want {
			if !tokens[w] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func assertColors(d *document, ex *Expectations) []Finding {
	var findings []Finding
	tokens := d.allTokens()

	for key, n := range ex.BackgroundColors {
		if !hasColorToken(tokens, "bg-", key) {
			findings = append(findings, nodeFinding(ErrMissingColor, "color",
				"background color has no matching token", n))
		}
	}
	for key, n := range ex.TextColors {
		if !hasColorToken(tokens, "text-", key) {
			findings = append(findings, nodeFinding(ErrMissingColor, "color",
				"text color has no matching token", n))
		}
	}
	for want, n := range ex.Shadows {
		found := false
		for _, t := range tokens {
			if v, ok := bracketValue(t, "shadow-"); ok && normalizeGradient(v) == want {
				found = true
				break
			}
		}
		if !found {
			findings = append(findings, nodeFinding(ErrMissingShadow, "shadow",
				"shadow has no matching token", n))
		}
	}
	for want, n := range ex.Gradients {
		found := false
		for _, t := range tokens {
			if v, ok := bracketValue(t, "bg-"); ok {
				norm := normalizeGradient(v)
				if norm == want || strings.HasPrefix(want, norm) || strings.HasPrefix(norm, want) {
					found = true
					break
				}
			}
		}
		if !found {
			findings = append(findings, nodeFinding(ErrMissingGradient, "gradient",
				"gradient background has no matching token", n))
		}
	}
	return findings
}

// hasColorToken reports whether any prefixed token denotes the color key,
// tolerating rgba, 8-digit hex and hex+slash-opacity encodings.
func hasColorToken(tokens []string, prefix, key string) bool {
	for _, t := range tokens {
		if v, ok := bracketValue(t, prefix); ok {
			if got, isColor := ir.NormalizeColorValue(v); isColor && got == key {
				return true
			}
		}
	}
	return false
}

func assertBackgroundWhitelist(d *document, ex *Expectations) []Finding {
	var findings []Finding
	for _, t := range d.allTokens() {
		if v, ok := bracketValue(t, "bg-"); ok && !ex.HasBackgroundValue(v) {
			findings = append(findings, Finding{
				Code:    ErrUnexpectedBackground,
				Rule:    "background-whitelist",
				Message: fmt.Sprintf("background token %q is not derived from the IR", t),
			})
		}
	}
	return findings
}

func assertTypography(d *document, ex *Expectations, root *ir.Node) []Finding {
	var findings []Finding
	payloads := d.textPayloads()

	ir.Walk(root, func(n *ir.Node) bool {
		if !n.VisibleEffective {
			return false
		}
		if ex.IconSubtree[n.ID] {
			return false
		}
		if n.Kind != ir.KindText || n.Text == nil {
			return true
		}
		content := n.Text.Content
		if content == "" {
			content = strings.Join(n.Text.Lines, " ")
		}
		if content == "" {
			return true
		}

		var element *textPayload
		for i := range payloads {
			if FoldText(payloads[i].content) == FoldText(content) {
				element = &payloads[i]
				break
			}
		}
		if element == nil {
			return true // text coverage already reports the absence
		}

		st := n.Text.Style
		tokens := map[string]bool{}
		for _, t := range strings.Fields(element.classes) {
			tokens[t] = true
		}
		miss := func(token, what string) {
			if !tokens[token] {
				findings = append(findings, nodeFinding(ErrTypographyMismatch, "typography",
					fmt.Sprintf("%s token %q missing on text element", what, token), n))
			}
		}
		if st.Size > 0 {
			miss(fmt.Sprintf("text-[%dpx]", int(math.Round(st.Size))), "font-size")
		}
		if st.LineHeight > 0 {
			miss(fmt.Sprintf("leading-[%dpx]", int(math.Round(st.LineHeight))), "line-height")
		}
		if st.Weight > 0 {
			miss(fmt.Sprintf("font-[%d]", st.Weight), "font-weight")
		}
		if st.Family != "" {
			miss(classes.FontFamilyToken(st.Family), "font-family")
		}
		// Near-zero letter spacing is exempt.
		if math.Abs(st.LetterSpacing) > 0.05 {
			found := false
			for t := range tokens {
				if strings.HasPrefix(t, "tracking-[") {
					found = true
					break
				}
			}
			if !found {
				findings = append(findings, nodeFinding(ErrTypographyMismatch, "typography",
					"letter-spacing token missing on text element", n))
			}
		}
		return true
	})
	return findings
}

func assertLayoutGuard(d *document, ex *Expectations, root *ir.Node) []Finding {
	if !d.containsToken("justify-between") || ex.RootSpaceBetween {
		return nil
	}
	return []Finding{nodeFinding(ErrLayoutGuard, "layout-guard",
		"space-between distribution appears without an IR request", root)}
}
