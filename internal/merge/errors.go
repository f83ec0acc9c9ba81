package merge

import (
	"errors"
	"fmt"
)

// Merge conflict codes (M100-M109).
const (
	ErrCodeNoMountPoint  = "M100" // no anchors and no recognizable insertion point
	ErrCodeBadAnchors    = "M101" // anchors present but not normalizable
	ErrCodeUnparsableTSX = "M102" // host file does not parse as TSX
)

// ConflictError reports that the mount region could not be located or
// normalized. The host file is left untouched.
type ConflictError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("[%s] merge conflict: %s", e.Code, e.Message)
}

// IsConflict reports whether err is a merge conflict.
// Uses errors.As to handle wrapped errors.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
