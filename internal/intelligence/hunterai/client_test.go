package hunterai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGeminiClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-2.0-flash",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return client
}

func TestGeminiClient_GenerateText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": "first "},
						{"text": "second"},
					},
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	text, err := client.GenerateText(context.Background(), "describe the asset")
	require.NoError(t, err)
	assert.Equal(t, "first second", text)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "describe the asset", gotBody.Contents[0].Parts[0].Text)
}

func TestGeminiClient_NonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAICallFailed, errors.GetCode(err))
}

func TestGeminiClient_APIErrorPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "invalid argument"},
		})
	})

	_, err := client.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAICallFailed, errors.GetCode(err))
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := client.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAIMalformedPayload, errors.GetCode(err))
}

func TestGeminiClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GenerateText(ctx, "prompt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAICallFailed, errors.GetCode(err))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(ClientConfig{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAINotConfigured, errors.GetCode(err))
}

func TestClientConfig_Configured(t *testing.T) {
	assert.False(t, ClientConfig{}.Configured())
	assert.False(t, ClientConfig{APIKey: "   "}.Configured())
	assert.True(t, ClientConfig{APIKey: "k"}.Configured())
}
