package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownModel is returned when single-model dispatch names a model that
// is not registered.
var ErrUnknownModel = errors.New("unknown model")

// ValidationError carries the ordered list of contract violation messages.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid option contract: " + strings.Join(e.Violations, "; ")
}

// ModelError wraps an unexpected numerical failure inside one model. During
// a multi-model run it is logged and the model's result is dropped; sibling
// models still report.
type ModelError struct {
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
