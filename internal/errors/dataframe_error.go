// Package errors provides the error taxonomy shared by every frame operation.
// DataFrameError carries operation context; the typed errors below cover shape,
// resolution, conversion, arity and invariant failures so callers can branch
// with errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// DataFrameError represents standardized errors across all DataFrame operations
type DataFrameError struct {
	Op      string // Operation name (e.g., "select", "join", "groupBy")
	Column  string // Column name or path if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *DataFrameError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		if msg == "" {
			msg = e.Cause.Error()
		} else {
			msg += ": " + e.Cause.Error()
		}
	}
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, msg)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, msg)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *DataFrameError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by kind message, ignoring the operation and column.
func (e *DataFrameError) Is(target error) bool {
	df, ok := target.(*DataFrameError)
	if !ok {
		return false
	}
	if df.Op == "" && df.Column == "" {
		return e.Message == df.Message
	}
	return e.Op == df.Op && e.Column == df.Column && e.Message == df.Message
}

// Sentinel kinds. Constructors below produce errors that match them via errors.Is.
var (
	// ErrMismatchedLength indicates columns of different lengths in one frame
	ErrMismatchedLength = &DataFrameError{Message: "columns must have the same length"}

	// ErrDuplicateColumn indicates two columns sharing a name at one nesting level
	ErrDuplicateColumn = &DataFrameError{Message: "duplicate column name"}

	// ErrColumnNotFound indicates an unresolvable name or path
	ErrColumnNotFound = &DataFrameError{Message: "column does not exist"}

	// ErrIndexOutOfBounds indicates a positional lookup past the column count
	ErrIndexOutOfBounds = &DataFrameError{Message: "index out of bounds"}

	// ErrArity indicates a mismatch between supplied names and columns
	ErrArity = &DataFrameError{Message: "arity mismatch"}

	// ErrInvariant indicates an operation that would break the column tree
	ErrInvariant = &DataFrameError{Message: "invariant violation"}

	// ErrTypeMismatch indicates a column whose type does not fit the operation
	ErrTypeMismatch = &DataFrameError{Message: "type mismatch"}

	// ErrNoConverter indicates that no conversion exists between two types
	ErrNoConverter = errors.New("no converter registered")

	// ErrConversionFailed indicates a converter rejected a specific value
	ErrConversionFailed = errors.New("conversion failed")
)

func withCause(op, column, kind, detail string, cause error) *DataFrameError {
	e := &DataFrameError{Op: op, Column: column, Message: kind, Cause: cause}
	if detail != "" {
		e.Cause = &detailError{detail: detail, cause: cause}
	}
	return e
}

// detailError keeps extra context visible in Error() without changing the kind message.
type detailError struct {
	detail string
	cause  error
}

func (d *detailError) Error() string {
	if d.cause != nil {
		return d.detail + ": " + d.cause.Error()
	}
	return d.detail
}

func (d *detailError) Unwrap() error { return d.cause }

// Detail returns the wrapped detail text, if any.
func (e *DataFrameError) Detail() string {
	var d *detailError
	if errors.As(e.Cause, &d) {
		return d.Error()
	}
	return ""
}

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *DataFrameError {
	return &DataFrameError{Op: op, Column: column, Message: ErrColumnNotFound.Message}
}

// NewIndexOutOfBoundsError reports a positional lookup outside [0, size).
func NewIndexOutOfBoundsError(op string, index, size int) *DataFrameError {
	return withCause(op, "", ErrIndexOutOfBounds.Message,
		fmt.Sprintf("index %d, size %d", index, size), nil)
}

// NewMismatchedLengthError reports a column whose length differs from the frame.
func NewMismatchedLengthError(op, column string, got, want int) *DataFrameError {
	return withCause(op, column, ErrMismatchedLength.Message,
		fmt.Sprintf("length %d, expected %d", got, want), nil)
}

// NewDuplicateColumnError reports a name used twice at one nesting level.
func NewDuplicateColumnError(op, column string) *DataFrameError {
	return &DataFrameError{Op: op, Column: column, Message: ErrDuplicateColumn.Message}
}

// NewArityError reports a mismatched supplied-name count.
func NewArityError(op string, got, want int) *DataFrameError {
	return withCause(op, "", ErrArity.Message, fmt.Sprintf("got %d, expected %d", got, want), nil)
}

// NewInvariantError names both columns involved in a rejected operation.
func NewInvariantError(op, column, other, detail string) *DataFrameError {
	return withCause(op, column, ErrInvariant.Message,
		fmt.Sprintf("%s: '%s' and '%s'", detail, column, other), nil)
}

// NewTypeMismatchError reports a column of the wrong type for an operation.
func NewTypeMismatchError(op, column, detail string) *DataFrameError {
	return withCause(op, column, ErrTypeMismatch.Message, detail, nil)
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: message,
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// ConversionError reports a value that could not be converted.
// Row is -1 when the failure is not tied to a row.
type ConversionError struct {
	Column string
	Row    int
	Value  any
	From   string
	To     string
	Cause  error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	b.WriteString("cannot convert")
	if e.Column != "" {
		fmt.Fprintf(&b, " column '%s'", e.Column)
	}
	if e.Row >= 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	fmt.Fprintf(&b, " value %v from %s to %s", e.Value, e.From, e.To)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error { return e.Cause }

// NoConverter reports whether the failure means no conversion exists for the
// type pair, as opposed to a converter rejecting this value.
func (e *ConversionError) NoConverter() bool {
	return errors.Is(e.Cause, ErrNoConverter)
}

// IsNotFound reports whether err is an unresolved column.
func IsNotFound(err error) bool { return errors.Is(err, ErrColumnNotFound) }
