package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorFormat(t *testing.T) {
	e := New(ErrCodeSearchUnavailable, "search provider unavailable")
	assert.Equal(t, "[SRC_002] search provider unavailable", e.Error())

	withDetail := e.WithDetail("marketplace=chrome")
	assert.Equal(t, "[SRC_002] search provider unavailable: marketplace=chrome", withDetail.Error())
	// The original is not mutated.
	assert.Empty(t, e.Detail)
}

func TestWrapPreservesChain(t *testing.T) {
	root := fmt.Errorf("connection refused")
	wrapped := Wrap(root, ErrCodeSearchUnavailable, "search call failed")
	require.NotNil(t, wrapped)
	assert.True(t, errors.Is(wrapped, root))
	assert.True(t, IsCode(wrapped, ErrCodeSearchUnavailable))
	assert.False(t, IsCode(wrapped, ErrCodeAINotConfigured))
}

func TestWrapNil(t *testing.T) {
	var err error
	assert.Nil(t, Wrap(err, ErrCodeInternal, "should be nil"))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(nil))
	assert.Equal(t, ErrCodeInternal, GetCode(fmt.Errorf("plain error")))
	assert.Equal(t, ErrCodeAICallFailed, GetCode(New(ErrCodeAICallFailed, "boom")))

	wrapped := fmt.Errorf("outer: %w", New(ErrCodeAINotConfigured, "no key"))
	assert.Equal(t, ErrCodeAINotConfigured, GetCode(wrapped))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeSearchNotConfigured, http.StatusServiceUnavailable},
		{ErrCodeAINotConfigured, http.StatusServiceUnavailable},
		{ErrCodeAIMalformedPayload, http.StatusBadGateway},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCode("UNMAPPED_999"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatusForCode(tt.code), "code %s", tt.code)
	}
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeValidation))
	assert.False(t, IsServerError(ErrCodeValidation))
	assert.True(t, IsServerError(ErrCodeSearchUnavailable))
	assert.False(t, IsClientError(ErrCodeSearchUnavailable))
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "AI verifier not configured", DefaultMessageForCode(ErrCodeAINotConfigured))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE_001")))
}
