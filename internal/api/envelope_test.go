package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeTransformer_WrapsSuccess(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "list-1"})
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, float64(EnvelopeVersion), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Equal(t, map[string]any{"id": "list-1"}, out["data"])
	assert.NotContains(t, out, "error")
}

func TestEnvelopeTransformer_CodedError(t *testing.T) {
	apiErr := &APIError{
		status:  http.StatusBadRequest,
		Code:    "VALIDATION",
		Message: "validation failed",
		Details: map[string]string{"name": "is required"},
	}

	result, err := EnvelopeTransformer(nil, "400", apiErr)
	require.NoError(t, err)

	env, ok := result.(APIErrorEnvelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Equal(t, "validation failed", env.Error)
	assert.Equal(t, map[string]string{"name": "is required"}, env.Details)
}

func TestEnvelopeTransformer_PlainError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "500", errors.New("boom"))
	require.NoError(t, err)

	env, ok := result.(APIEnvelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, "boom", env.Error)
}

func TestEnvelopeTransformer_AlreadyWrapped(t *testing.T) {
	in := APIEnvelope{Version: EnvelopeVersion, Success: true, Data: "x"}
	result, err := EnvelopeTransformer(nil, "200", in)
	require.NoError(t, err)
	assert.Equal(t, in, result)
}

func TestStatusToCode(t *testing.T) {
	tests := map[int]string{
		http.StatusBadRequest:          "VALIDATION",
		http.StatusUnprocessableEntity: "VALIDATION",
		http.StatusUnauthorized:        "UNAUTHORIZED",
		http.StatusForbidden:           "FORBIDDEN",
		http.StatusNotFound:            "NOT_FOUND",
		http.StatusConflict:            "CONFLICT",
		http.StatusTooManyRequests:     "RATE_LIMITED",
		http.StatusTeapot:              "INTERNAL",
	}
	for status, want := range tests {
		assert.Equal(t, want, statusToCode(status), "status %d", status)
	}
}
