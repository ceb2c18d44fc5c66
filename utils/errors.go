package utils

import (
	"fmt"
	"strings"
)

// ShapeError is returned when a matrix, vector or tensor does not have the dimensions an
// operation requires.
type ShapeError struct {
	Op       string
	Expected string
	Actual   []int
}

func (e *ShapeError) Error() string {
	dims := make([]string, 0, len(e.Actual))
	for _, d := range e.Actual {
		dims = append(dims, fmt.Sprint(d))
	}
	return fmt.Sprintf("%s: expected shape %s but got (%s)", e.Op, e.Expected, strings.Join(dims, ", "))
}

// NewShapeError is used when an input has the wrong dimensions.
func NewShapeError(op, expected string, actual ...int) error {
	return &ShapeError{Op: op, Expected: expected, Actual: actual}
}

// DomainError is returned when numerically invalid values reach a computation, for example a
// rotation matrix that is not orthonormal or a NaN that survived clamping.
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// NewDomainError is used when a value is outside of the domain of an operation.
func NewDomainError(op, format string, args ...interface{}) error {
	return &DomainError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// DegenerateInputError is returned when an input is well formed but does not carry enough
// information for the requested quantity to be defined.
type DegenerateInputError struct {
	Op     string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s: degenerate input: %s", e.Op, e.Reason)
}

// NewDegenerateInputError is used when a metric is undefined for the given input.
func NewDegenerateInputError(op, format string, args ...interface{}) error {
	return &DegenerateInputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// NewConfigValidationError returns a config validation error occurring at a given path.
func NewConfigValidationError(path string, err error) error {
	return fmt.Errorf("error validating %q: %w", path, err)
}
