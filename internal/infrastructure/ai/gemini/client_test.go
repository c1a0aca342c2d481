package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/platemuse/v1/internal/infrastructure/config"
	pkgerrors "github.com/platemuse/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(key string) config.AIConfig {
	return config.AIConfig{
		GeminiAPIKey: key,
		Timeout:      5 * time.Second,
		MaxRetries:   1,
		Temperature:  0.7,
	}
}

func candidateResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGenerateTextSuccess(t *testing.T) {
	var gotPath string
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		var req generateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)

		json.NewEncoder(w).Encode(candidateResponse("hello from the model"))
	}))
	defer server.Close()

	client := NewClient(testConfig("test-key"), zaptest.NewLogger(t), WithBaseURL(server.URL))

	text, err := client.GenerateText(context.Background(), "gemini-2.0-flash-exp", "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello from the model", text)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash-exp:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
}

func TestGenerateTextMissingKeyShortCircuits(t *testing.T) {
	var called atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Add(1)
	}))
	defer server.Close()

	client := NewClient(testConfig(""), zaptest.NewLogger(t), WithBaseURL(server.URL))

	_, err := client.GenerateText(context.Background(), "gemini-1.5-pro", "prompt")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConfigurationError))
	assert.Equal(t, int32(0), called.Load(), "no network call may be made without a key")
}

func TestGenerateTextRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(candidateResponse("recovered"))
	}))
	defer server.Close()

	client := NewClient(testConfig("test-key"), zaptest.NewLogger(t), WithBaseURL(server.URL))

	text, err := client.GenerateText(context.Background(), "gemini-1.5-pro", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateTextNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(testConfig("test-key"), zaptest.NewLogger(t), WithBaseURL(server.URL))

	_, err := client.GenerateText(context.Background(), "gemini-1.5-pro", "prompt")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient(testConfig("test-key"), zaptest.NewLogger(t), WithBaseURL(server.URL))

	_, err := client.GenerateText(context.Background(), "gemini-1.5-pro", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGenerateTextJoinsParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]string{{"text": "part one "}, {"text": "part two"}},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig("test-key"), zaptest.NewLogger(t), WithBaseURL(server.URL))

	text, err := client.GenerateText(context.Background(), "gemini-2.0-flash-exp", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "part one part two", text)
}
