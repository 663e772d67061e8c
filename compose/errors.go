package compose

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidComponentCount indicates a component count below one.
	ErrInvalidComponentCount = errors.New("compose: invalid component count")
	// ErrIndexOutOfRange indicates an input slot outside [0, components).
	ErrIndexOutOfRange = errors.New("compose: input index out of range")
	// ErrMissingPrimaryInput indicates that input 0, which defines the output
	// geometry, was not set.
	ErrMissingPrimaryInput = errors.New("compose: input 0 is required but not set")
	// ErrGeometryMismatch indicates an input whose geometry differs from
	// input 0.
	ErrGeometryMismatch = errors.New("compose: input geometry mismatch")
	// ErrPhaseOrder indicates an execution phase called before the phase it
	// depends on.
	ErrPhaseOrder = errors.New("compose: execution phase called out of order")
)

// IndexError reports an input slot outside [0, Components).
type IndexError struct {
	Index      int
	Components int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("compose: input index %d out of range [0, %d)", e.Index, e.Components)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// GeometryError reports an input whose geometry does not match input 0.
type GeometryError struct {
	Index int
	Err   error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("compose: input %d does not match input 0: %v", e.Index, e.Err)
}

func (e *GeometryError) Unwrap() []error {
	return []error{ErrGeometryMismatch, e.Err}
}
