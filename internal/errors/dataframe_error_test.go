package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/paveg/nestframe/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFrameError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.DataFrameError
		expected string
	}{
		{
			name:     "Error with column",
			err:      errors.NewColumnNotFoundError("select", "age"),
			expected: "select operation failed on column 'age': column does not exist",
		},
		{
			name:     "Error without column",
			err:      errors.NewInvalidInputError("join", "no keys"),
			expected: "join operation failed: no keys",
		},
		{
			name:     "Index detail",
			err:      errors.NewIndexOutOfBoundsError("col", 5, 3),
			expected: "col operation failed: index out of bounds: index 5, size 3",
		},
		{
			name:     "Arity detail",
			err:      errors.NewArityError("split", 1, 2),
			expected: "split operation failed: arity mismatch: got 1, expected 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDataFrameError_IsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", errors.NewColumnNotFoundError("select", "a"), errors.ErrColumnNotFound},
		{"index", errors.NewIndexOutOfBoundsError("col", 2, 1), errors.ErrIndexOutOfBounds},
		{"length", errors.NewMismatchedLengthError("new", "b", 2, 3), errors.ErrMismatchedLength},
		{"duplicate", errors.NewDuplicateColumnError("new", "a"), errors.ErrDuplicateColumn},
		{"arity", errors.NewArityError("join", 1, 2), errors.ErrArity},
		{"invariant", errors.NewInvariantError("move", "a", "a.b", "cannot move into descendant"), errors.ErrInvariant},
		{"type", errors.NewTypeMismatchError("sum", "a", "not numeric"), errors.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}

	assert.NotErrorIs(t, errors.NewArityError("join", 1, 2), errors.ErrColumnNotFound)
	assert.True(t, errors.IsNotFound(errors.NewColumnNotFoundError("x", "y")))
}

func TestDataFrameError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := errors.NewInternalError("pivot", cause)
	assert.ErrorIs(t, err, cause)

	var dfErr *errors.DataFrameError
	require.ErrorAs(t, fmt.Errorf("wrap: %w", err), &dfErr)
	assert.Equal(t, "pivot", dfErr.Op)
}

func TestInvariantErrorNamesBothColumns(t *testing.T) {
	err := errors.NewInvariantError("move", "a", "a.b", "cannot move column into its own descendant")
	assert.Contains(t, err.Error(), "'a'")
	assert.Contains(t, err.Error(), "'a.b'")
	assert.Contains(t, err.Detail(), "descendant")
}

func TestConversionError(t *testing.T) {
	t.Run("no converter", func(t *testing.T) {
		err := &errors.ConversionError{
			Column: "x", Row: 3, Value: "abc", From: "string", To: "time.Duration",
			Cause: errors.ErrNoConverter,
		}
		assert.True(t, err.NoConverter())
		assert.ErrorIs(t, err, errors.ErrNoConverter)
		assert.Equal(t,
			"cannot convert column 'x' row 3 value abc from string to time.Duration: no converter registered",
			err.Error())
	})

	t.Run("converter failed", func(t *testing.T) {
		err := &errors.ConversionError{
			Row: -1, Value: "zz", From: "string", To: "int",
			Cause: fmt.Errorf("%w: invalid syntax", errors.ErrConversionFailed),
		}
		assert.False(t, err.NoConverter())
		assert.ErrorIs(t, err, errors.ErrConversionFailed)
		assert.NotContains(t, err.Error(), "row")
	})
}
