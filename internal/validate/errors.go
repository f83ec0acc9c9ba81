package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/figgo/figgo/internal/ir"
)

// Validation rule codes (V100-V169).
const (
	ErrUnexpectedText = "V100" // text in output absent from the IR
	ErrMissingText    = "V101" // IR text absent from the output

	ErrIconMissing          = "V110" // expected icon not imported or not used
	ErrIconDuplicate        = "V111" // expected icon used more than once
	ErrIconUnexpectedImport = "V112" // asset import with no IR counterpart
	ErrIconSizeMismatch     = "V113" // image size differs from the asset map
	ErrAutofixExhausted     = "V114" // an autofix pass cannot repair what it owns

	ErrDimensionMismatch = "V120" // width/height tokens missing or wrong
	ErrPositionMismatch  = "V121" // left/top tokens missing or wrong

	ErrMissingColor    = "V130" // background or text color token absent
	ErrMissingShadow   = "V131" // shadow token absent
	ErrMissingGradient = "V132" // gradient token absent

	ErrUnexpectedBackground = "V140" // background token outside the whitelist

	ErrTypographyMismatch = "V150" // font tokens differ from the text style

	ErrLayoutGuard = "V160" // space-between token without an IR request
)

// Finding is one validation failure with the offending node's context.
type Finding struct {
	Code     string   `json:"code"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	NodeID   string   `json:"nodeId,omitempty"`
	NodeName string   `json:"nodeName,omitempty"`
	NodeType string   `json:"nodeType,omitempty"`
	Bounds   *ir.Rect `json:"bounds,omitempty"`
}

func (f Finding) String() string {
	if f.NodeID != "" {
		return fmt.Sprintf("[%s] %s: %s (node %s %q %s)", f.Code, f.Rule, f.Message, f.NodeID, f.NodeName, f.NodeType)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Code, f.Rule, f.Message)
}

// nodeFinding fills the offending-node context from an IR node.
func nodeFinding(code, rule, message string, n *ir.Node) Finding {
	f := Finding{Code: code, Rule: rule, Message: message}
	if n != nil {
		b := n.Bounds
		f.NodeID = n.ID
		f.NodeName = n.Name
		f.NodeType = n.Type
		f.Bounds = &b
	}
	return f
}

// Report is the structured result of a validation run.
type Report struct {
	// Fixed lists the mutating passes that changed the document.
	Fixed []string `json:"fixed,omitempty"`
	// Findings are the assertion failures. Empty means the output conforms.
	Findings []Finding `json:"findings,omitempty"`
}

// OK reports whether validation passed.
func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

// ValidationError is the fatal result of a failed validation run. No file is
// persisted when validation fails.
type ValidationError struct {
	Report *Report
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Report == nil || len(e.Report.Findings) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Report.Findings))
	for _, f := range e.Report.Findings {
		msgs = append(msgs, f.String())
	}
	return fmt.Sprintf("validation failed with %d finding(s): %s",
		len(e.Report.Findings), strings.Join(msgs, "; "))
}

// AsValidationError extracts a ValidationError from err.
// Uses errors.As to handle wrapped errors.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
