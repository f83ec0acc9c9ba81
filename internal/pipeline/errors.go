package pipeline

import (
	"errors"
	"fmt"
)

// Stage identifies where in the pipeline a run failed.
type Stage string

const (
	StageBuild    Stage = "build"
	StageGenerate Stage = "generate"
	StageValidate Stage = "validate"
	StageMerge    Stage = "merge"
	StagePersist  Stage = "persist"
)

// RunError wraps a stage failure. The underlying error keeps its concrete
// type, so errors.As against builder.InputError, validate.ValidationError
// and merge.ConflictError still works through it.
type RunError struct {
	Stage Stage
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// AsRunError extracts a *RunError from an error chain.
func AsRunError(err error) (*RunError, bool) {
	var re *RunError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
