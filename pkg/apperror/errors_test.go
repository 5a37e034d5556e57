package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CodeEmptyGraph, "graph has no vertices")
	assert.Equal(t, "[EMPTY_GRAPH] graph has no vertices", err.Error())

	withField := NewWithField(CodeNegativeCapacity, "capacity must be non-negative", "edges[2].capacity")
	assert.Equal(t, "[NEGATIVE_CAPACITY] capacity must be non-negative (field: edges[2].capacity)", withField.Error())
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, CodeInternal, "failed to persist run")

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestIsAndCode(t *testing.T) {
	err := New(CodeMissingSource, "no source")
	wrapped := fmt.Errorf("solver setup: %w", err)

	assert.True(t, Is(wrapped, CodeMissingSource))
	assert.False(t, Is(wrapped, CodeMissingSink))
	assert.Equal(t, CodeMissingSource, Code(wrapped))

	assert.Equal(t, CodeInternal, Code(errors.New("plain")))
	assert.False(t, Is(errors.New("plain"), CodeMissingSource))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeNegativeCapacity, http.StatusBadRequest},
		{CodeEmptyGraph, http.StatusBadRequest},
		{CodeInvalidAlgorithm, http.StatusBadRequest},
		{CodeMissingSource, http.StatusUnprocessableEntity},
		{CodeMissingSink, http.StatusUnprocessableEntity},
		{CodeAmbiguousVertex, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeCanceled, http.StatusGatewayTimeout},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "msg").HTTPStatus())
		})
	}

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("wrap: %w", ErrEmptyPath)))
}

func TestBuilders(t *testing.T) {
	err := New(CodeDanglingEdge, "edge references unknown vertex").
		WithField("edges[0].from").
		WithDetails("vertex", "x").
		WithSeverity(SeverityCritical)

	assert.Equal(t, "edges[0].from", err.Field)
	assert.Equal(t, "x", err.Details["vertex"])
	assert.Equal(t, SeverityCritical, err.Severity)
	assert.Equal(t, "critical", err.Severity.String())
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	assert.True(t, v.IsValid())
	assert.Nil(t, v.First())

	v.Add(NewWarning(CodeInvalidArgument, "payload ignored"))
	assert.True(t, v.IsValid())
	assert.Len(t, v.Warnings, 1)

	v.AddErrorWithField(CodeNegativeCapacity, "capacity must be non-negative", "edges[1].capacity")
	v.AddError(CodeEmptyGraph, "graph has no vertices")

	assert.True(t, v.HasErrors())
	assert.False(t, v.IsValid())
	require.NotNil(t, v.First())
	assert.Equal(t, CodeNegativeCapacity, v.First().Code)
	assert.Len(t, v.ErrorMessages(), 2)
}
