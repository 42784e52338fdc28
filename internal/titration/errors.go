// Package titration computes strong acid / strong base titration curves.
package titration

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter reports a non-positive, non-finite or otherwise unusable input.
var ErrInvalidParameter = errors.New("titration: invalid parameter")

// ParamError names the parameter that failed validation.
type ParamError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %g)", ErrInvalidParameter, e.Field, e.Reason, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}
