package builder

import (
	"errors"
	"fmt"
)

// Input error codes (B100-B109).
const (
	ErrCodeNodeNotFound = "B100" // target node absent from the document
	ErrCodeEmptyDoc     = "B101" // document has no root
)

// InputError reports a malformed or unusable request payload. Input errors
// are fatal before generation begins.
type InputError struct {
	Code    string
	Message string
	NodeID  string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("[%s] node %s: %s", e.Code, e.NodeID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewNotFoundError creates an InputError for a missing target node.
func NewNotFoundError(nodeID string) *InputError {
	return &InputError{
		Code:    ErrCodeNodeNotFound,
		Message: "target node not found in document",
		NodeID:  nodeID,
	}
}

// IsNotFound reports whether err is a missing-target-node error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeNodeNotFound
	}
	return false
}

// IsInputError reports whether err is any input error.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
