package validate

import (
	"fmt"
	"strings"

	"github.com/figgo/figgo/internal/classes"
	"github.com/figgo/figgo/internal/codegen"
)

// The mutating passes run in this fixed order; each assumes the previous
// ones ran. Within one class attribute fixes apply left to right and every
// pass re-reads what the previous pass wrote.

// purgeUnexpectedText deletes text-bearing leaves whose content is not in
// the expected-text set.
func purgeUnexpectedText(d *document, ex *Expectations) bool {
	changed := false
	for {
		removed := false
		for _, tp := range d.textPayloads() {
			if _, ok := ex.Texts[FoldText(tp.content)]; !ok {
				d.removeLine(tp.line)
				removed = true
				changed = true
				break // line numbers shifted, rescan
			}
		}
		if !removed {
			return changed
		}
	}
}

// autofixIcons inserts a missing import plus one image usage per expected
// node for every icon asset not already present, at the enforced minimum
// size. Paths are visited in sorted order so repaired output is byte-stable.
// Returns an AutofixExhausted finding per expectation it cannot repair.
func autofixIcons(d *document, ex *Expectations) (bool, []Finding) {
	changed := false
	var findings []Finding

	for _, pe := range ex.IconsByPath() {
		if pe.Path == "" {
			for _, n := range pe.Nodes {
				findings = append(findings, nodeFinding(ErrAutofixExhausted, "icon-autofix",
					"icon asset has no import path", n))
			}
			continue
		}
		bindingName := ""
		for _, imp := range d.imports() {
			if imp.path == pe.Path {
				bindingName = imp.name
			}
		}
		usages := 0
		if bindingName != "" {
			for _, img := range d.imageElements() {
				if img.binding == bindingName {
					usages++
				}
			}
		}
		if usages >= len(pe.Nodes) {
			continue
		}

		if bindingName == "" {
			bindingName = freshBindingName(d, pe.Path)
			insertImport(d, bindingName, pe.Path)
			changed = true
		}
		for ; usages < len(pe.Nodes); usages++ {
			if !insertImageUsage(d, bindingName, pe.Asset) {
				findings = append(findings, nodeFinding(ErrAutofixExhausted, "icon-autofix",
					"no structural element to attach the icon usage to", pe.Nodes[usages]))
				break
			}
			changed = true
		}
	}
	return changed, findings
}

func freshBindingName(d *document, path string) string {
	taken := map[string]bool{}
	for _, imp := range d.imports() {
		taken[imp.name] = true
	}
	base := codegen.BindingName(path)
	name := base
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	return name
}

func insertImport(d *document, name, path string) {
	line := fmt.Sprintf("import %s from %q;", name, path)
	imports := d.imports()
	if len(imports) > 0 {
		d.insertLine(imports[len(imports)-1].line+1, line)
		return
	}
	d.insertLine(0, line)
	if len(d.lines) > 1 && strings.TrimSpace(d.lines[1]) != "" {
		d.insertLine(1, "")
	}
}

// insertImageUsage appends the image element as the last child of the
// component root, converting a self-closing root when necessary.
func insertImageUsage(d *document, binding string, asset codegen.IconAsset) bool {
	r := d.rootElement()
	if r < 0 {
		return false
	}
	m := divOpenRe.FindStringSubmatch(d.lines[r])
	indent := m[1]
	img := fmt.Sprintf("%s  <img src={%s} width={%d} height={%d} className=\"w-[%dpx] h-[%dpx]\" alt=\"\" />",
		indent, binding, minOne(asset.Width), minOne(asset.Height), minOne(asset.Width), minOne(asset.Height))

	if m[3] == "/" { // self-closing root
		d.lines[r] = fmt.Sprintf("%s<div className=%q>", indent, m[2])
		d.insertLine(r+1, img)
		d.insertLine(r+2, indent+"</div>")
		return true
	}
	closing := indent + "</div>"
	for i := len(d.lines) - 1; i > r; i-- {
		if d.lines[i] == closing {
			d.insertLine(i, img)
			return true
		}
	}
	return false
}

// sanitizeIconPositions strips position classes from image elements.
func sanitizeIconPositions(d *document, _ *Expectations) bool {
	changed := false
	for _, img := range d.imageElements() {
		kept := make([]string, 0, 8)
		for _, t := range strings.Fields(img.classes) {
			if t == "absolute" || t == "relative" ||
				strings.HasPrefix(t, "left-") || strings.HasPrefix(t, "top-") {
				continue
			}
			kept = append(kept, t)
		}
		next := strings.Join(kept, " ")
		if next != img.classes {
			d.replaceClasses(img.line, next)
			changed = true
		}
	}
	return changed
}

// compactArbitraryValues collapses whitespace inside bracketed class values
// so spacing cannot split one token into two.
func compactArbitraryValues(d *document, _ *Expectations) bool {
	changed := false
	for i, line := range d.lines {
		next := classAttrRe.ReplaceAllStringFunc(line, func(attr string) string {
			return compactBrackets(attr)
		})
		if next != line {
			d.lines[i] = next
			changed = true
		}
	}
	return changed
}

func compactBrackets(s string) string {
	var b strings.Builder
	depth := 0
	pendingSpace := false
	for _, r := range s {
		switch r {
		case '[':
			depth++
			pendingSpace = false
			b.WriteRune(r)
		case ']':
			if depth > 0 {
				depth--
			}
			pendingSpace = false
			b.WriteRune(r)
		case ' ', '\t':
			if depth > 0 {
				// Collapse a whitespace run inside brackets into one
				// underscore.
				if !pendingSpace {
					b.WriteRune('_')
					pendingSpace = true
				}
			} else {
				b.WriteRune(r)
			}
		default:
			pendingSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// purgeUnexpectedBackgrounds removes background tokens whose value is absent
// from the expected-background set.
func purgeUnexpectedBackgrounds(d *document, ex *Expectations) bool {
	changed := false
	for i, line := range d.lines {
		matches := classAttrRe.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		kept := make([]string, 0, 8)
		dirty := false
		for _, t := range strings.Fields(matches[1]) {
			if v, ok := bracketValue(t, "bg-"); ok && !ex.HasBackgroundValue(v) {
				dirty = true
				continue
			}
			kept = append(kept, t)
		}
		if dirty {
			d.replaceClasses(i, strings.Join(kept, " "))
			changed = true
		}
	}
	return changed
}

// autofixFontFamily injects a font-family token on the first structural
// element when the IR uses exactly one family and the root lacks one.
func autofixFontFamily(d *document, ex *Expectations) bool {
	if len(ex.Fonts) != 1 {
		return false
	}
	r := d.rootElement()
	if r < 0 {
		return false
	}
	m := divOpenRe.FindStringSubmatch(d.lines[r])
	if strings.Contains(m[2], "font-['") {
		return false
	}
	var family string
	for f := range ex.Fonts {
		family = f
	}
	token := classes.FontFamilyToken(family)
	cl := strings.TrimSpace(m[2] + " " + token)
	d.replaceClasses(r, cl)
	return true
}

// bracketValue extracts VALUE from a token of the form prefixVALUE where
// VALUE is bracketed, e.g. bg-[#112233].
func bracketValue(token, prefix string) (string, bool) {
	if !strings.HasPrefix(token, prefix+"[") || !strings.HasSuffix(token, "]") {
		return "", false
	}
	return token[len(prefix)+1 : len(token)-1], true
}

func minOne(v float64) int {
	n := int(v + 0.5)
	if n < 1 {
		return 1
	}
	return n
}
