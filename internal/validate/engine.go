// Package validate enforces 1:1 parity between the IR and the generated
// text: an ordered pipeline of repair passes followed by assertion passes.
// Non-conformant output is rejected with the offending node's context.
package validate

import (
	"github.com/figgo/figgo/internal/codegen"
	"github.com/figgo/figgo/internal/config"
	"github.com/figgo/figgo/internal/ir"
)

// Engine runs the validator/autofix pipeline.
type Engine struct {
	cfg config.Config
}

// New creates an engine with the given pipeline configuration.
func New(cfg config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Run repairs and validates gen against the IR. The generated source is
// rewritten in place with the repaired text; on assertion failure the
// returned error is a *ValidationError carrying the report and the caller
// must not persist the file.
func (e *Engine) Run(gen *codegen.GeneratedFile, root *ir.Node, icons map[string]codegen.IconAsset) (*Report, error) {
	ex := BuildExpectations(root, icons)
	d := newDocument(gen.Source)
	report := &Report{}

	// Repair passes, fixed order.
	if purgeUnexpectedText(d, ex) {
		report.Fixed = append(report.Fixed, "text-purge")
	}
	changed, exhausted := autofixIcons(d, ex)
	if changed {
		report.Fixed = append(report.Fixed, "icon-autofix")
	}
	report.Findings = append(report.Findings, exhausted...)
	if sanitizeIconPositions(d, ex) {
		report.Fixed = append(report.Fixed, "icon-position")
	}
	if compactArbitraryValues(d, ex) {
		report.Fixed = append(report.Fixed, "value-compaction")
	}
	if purgeUnexpectedBackgrounds(d, ex) {
		report.Fixed = append(report.Fixed, "background-purge")
	}
	if autofixFontFamily(d, ex) {
		report.Fixed = append(report.Fixed, "font-family")
	}

	// Assertion passes, no mutation.
	if e.cfg.Icon.Strict {
		report.Findings = append(report.Findings, assertIcons(d, ex)...)
	}
	report.Findings = append(report.Findings, assertText(d, ex)...)
	report.Findings = append(report.Findings, assertDimensions(d, ex, root)...)
	report.Findings = append(report.Findings, assertColors(d, ex)...)
	report.Findings = append(report.Findings, assertBackgroundWhitelist(d, ex)...)
	report.Findings = append(report.Findings, assertTypography(d, ex, root)...)
	report.Findings = append(report.Findings, assertLayoutGuard(d, ex, root)...)

	gen.Source = d.String()
	gen.Bindings = resyncBindings(d)

	if !report.OK() {
		return report, &ValidationError{Report: report}
	}
	return report, nil
}

// resyncBindings rebuilds the binding list from the repaired document so
// icon autofix insertions are reflected.
func resyncBindings(d *document) []codegen.Binding {
	imports := d.imports()
	out := make([]codegen.Binding, 0, len(imports))
	for _, imp := range imports {
		out = append(out, codegen.Binding{LocalName: imp.name, ImportPath: imp.path})
	}
	return out
}
