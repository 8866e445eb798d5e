// Package validation provides input validation for frame construction and
// operations. Shape checks collect every problem they find, so a caller sees
// all mismatched lengths and duplicate names at once.
package validation

import (
	"github.com/hashicorp/go-multierror"

	"github.com/paveg/nestframe/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// Sized is anything with a name and a length, such as a column.
type Sized interface {
	Name() string
	Len() int
}

// ShapeValidator checks that sibling columns have equal lengths and
// pairwise-distinct names.
type ShapeValidator[C Sized] struct {
	columns  []C
	expected int
	op       string
}

// NewShapeValidator creates a shape validator. A negative expected length
// means the first column's length.
func NewShapeValidator[C Sized](op string, expected int, columns []C) *ShapeValidator[C] {
	return &ShapeValidator[C]{columns: columns, expected: expected, op: op}
}

// Validate reports every length mismatch and duplicate name.
func (v *ShapeValidator[C]) Validate() error {
	var result *multierror.Error
	expected := v.expected
	if expected < 0 && len(v.columns) > 0 {
		expected = v.columns[0].Len()
	}
	seen := make(map[string]struct{}, len(v.columns))
	for _, c := range v.columns {
		if c.Len() != expected {
			result = multierror.Append(result, errors.NewMismatchedLengthError(v.op, c.Name(), c.Len(), expected))
		}
		if _, dup := seen[c.Name()]; dup {
			result = multierror.Append(result, errors.NewDuplicateColumnError(v.op, c.Name()))
		}
		seen[c.Name()] = struct{}{}
	}
	return result.ErrorOrNil()
}

// ArityValidator checks a supplied count against the required one.
type ArityValidator struct {
	got, want int
	op        string
}

// NewArityValidator creates a validator for name/column count agreement.
func NewArityValidator(op string, got, want int) *ArityValidator {
	return &ArityValidator{got: got, want: want, op: op}
}

// Validate checks if counts match
func (v *ArityValidator) Validate() error {
	if v.got != v.want {
		return errors.NewArityError(v.op, v.got, v.want)
	}
	return nil
}

// IndexValidator validates index bounds
type IndexValidator struct {
	index int
	size  int
	op    string
}

// NewIndexValidator creates a validator for index operations
func NewIndexValidator(index, size int, op string) *IndexValidator {
	return &IndexValidator{index: index, size: size, op: op}
}

// Validate checks if index is within bounds
func (v *IndexValidator) Validate() error {
	if v.index < 0 || v.index >= v.size {
		return errors.NewIndexOutOfBoundsError(v.op, v.index, v.size)
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{validators: validators}
}

// Validate runs every validator and aggregates their errors.
func (v *CompoundValidator) Validate() error {
	var result *multierror.Error
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Convenience validation functions

// ValidateShape is a convenience function for shape validation
func ValidateShape[C Sized](op string, expected int, columns []C) error {
	return NewShapeValidator(op, expected, columns).Validate()
}

// ValidateArity is a convenience function for arity validation
func ValidateArity(op string, got, want int) error {
	return NewArityValidator(op, got, want).Validate()
}

// ValidateIndex is a convenience function for index validation
func ValidateIndex(index, size int, op string) error {
	return NewIndexValidator(index, size, op).Validate()
}
