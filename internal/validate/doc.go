package validate

import (
	"regexp"
	"strings"
)

// The validator operates line-oriented: the generator emits exactly one
// element or import per line, so these patterns only ever have to recognize
// self-generated shapes, never arbitrary hand-written code.
var (
	textLineRe   = regexp.MustCompile(`^(\s*)<p className="([^"]*)">\{"((?:[^"\\]|\\.)*)"\}</p>$`)
	imgLineRe    = regexp.MustCompile(`^(\s*)<img src=\{(\w+)\} width=\{(\d+)\} height=\{(\d+)\} className="([^"]*)" alt="" />$`)
	importLineRe = regexp.MustCompile(`^import (\w+) from "([^"]+)";$`)
	divOpenRe    = regexp.MustCompile(`^(\s*)<div className="([^"]*)"\s*(/?)>$`)
	classAttrRe  = regexp.MustCompile(`className="([^"]*)"`)
	attrTextRe   = regexp.MustCompile(`(?:alt|title|placeholder|aria-label)="([^"]*)"`)
)

// document is the mutable generated text during validation.
type document struct {
	lines []string
}

func newDocument(source string) *document {
	return &document{lines: strings.Split(source, "\n")}
}

func (d *document) String() string {
	return strings.Join(d.lines, "\n")
}

// textPayload is one recognized text element.
type textPayload struct {
	line    int
	indent  string
	classes string
	content string // unescaped payload
}

func (d *document) textPayloads() []textPayload {
	var out []textPayload
	for i, line := range d.lines {
		if m := textLineRe.FindStringSubmatch(line); m != nil {
			out = append(out, textPayload{
				line:    i,
				indent:  m[1],
				classes: m[2],
				content: unescapeText(m[3]),
			})
		}
	}
	return out
}

// imageElement is one recognized icon usage.
type imageElement struct {
	line    int
	binding string
	width   int
	height  int
	classes string
}

func (d *document) imageElements() []imageElement {
	var out []imageElement
	for i, line := range d.lines {
		if m := imgLineRe.FindStringSubmatch(line); m != nil {
			out = append(out, imageElement{
				line:    i,
				binding: m[2],
				width:   atoi(m[3]),
				height:  atoi(m[4]),
				classes: m[5],
			})
		}
	}
	return out
}

// importBinding is one recognized import statement.
type importBinding struct {
	line int
	name string
	path string
}

func (d *document) imports() []importBinding {
	var out []importBinding
	for i, line := range d.lines {
		if m := importLineRe.FindStringSubmatch(line); m != nil {
			out = append(out, importBinding{line: i, name: m[1], path: m[2]})
		}
	}
	return out
}

// removeLine deletes one line by index.
func (d *document) removeLine(i int) {
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
}

// insertLine inserts a line before index i.
func (d *document) insertLine(i int, line string) {
	d.lines = append(d.lines, "")
	copy(d.lines[i+1:], d.lines[i:])
	d.lines[i] = line
}

// replaceClasses rewrites the className attribute on one line.
func (d *document) replaceClasses(i int, classes string) {
	d.lines[i] = classAttrRe.ReplaceAllString(d.lines[i], `className="`+classes+`"`)
}

// classLists returns every className attribute value in the document.
func (d *document) classLists() []string {
	var out []string
	for _, line := range d.lines {
		for _, m := range classAttrRe.FindAllStringSubmatch(line, -1) {
			out = append(out, m[1])
		}
	}
	return out
}

// allTokens returns every class token in the document, in order.
func (d *document) allTokens() []string {
	var out []string
	for _, cl := range d.classLists() {
		out = append(out, strings.Fields(cl)...)
	}
	return out
}

// contains reports whether any class list carries the exact token.
func (d *document) containsToken(token string) bool {
	for _, t := range d.allTokens() {
		if t == token {
			return true
		}
	}
	return false
}

// rootElement locates the first structural element line (the component
// root). Returns -1 when absent.
func (d *document) rootElement() int {
	for i, line := range d.lines {
		if divOpenRe.MatchString(line) {
			return i
		}
	}
	return -1
}

func unescapeText(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
