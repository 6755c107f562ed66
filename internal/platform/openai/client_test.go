package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type chatRequest struct {
	Model          string `json:"model"`
	ResponseFormat *struct {
		Type       string `json:"type"`
		JSONSchema *struct {
			Name   string          `json:"name"`
			Strict bool            `json:"strict"`
			Schema json.RawMessage `json:"schema"`
		} `json:"json_schema"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 11, "completion_tokens": 7, "total_tokens": 18},
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, structured bool, retries int) Client {
	t.Helper()
	c, err := NewClient(logger.NewNop(), Config{
		APIKey:           "sk-test",
		BaseURL:          srv.URL + "/v1",
		Model:            "test-model",
		Temperature:      0.2,
		Timeout:          5 * time.Second,
		MaxRetries:       retries,
		RetryBackoff:     time.Millisecond,
		StructuredOutput: structured,
	})
	require.NoError(t, err)
	return c
}

func TestGenerateJSONSendsStrictSchema(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"course":{"name":"Go"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, true, 0)
	schema := map[string]any{"type": "object"}
	out, err := c.GenerateJSON(context.Background(), "system prompt", "user prompt", "course_layout", schema)
	require.NoError(t, err)
	assert.Equal(t, `{"course":{"name":"Go"}}`, out)

	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	require.NotNil(t, got.ResponseFormat.JSONSchema)
	assert.Equal(t, "course_layout", got.ResponseFormat.JSONSchema.Name)
	assert.True(t, got.ResponseFormat.JSONSchema.Strict)
	assert.JSONEq(t, `{"type":"object"}`, string(got.ResponseFormat.JSONSchema.Schema))
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "system prompt")
	assert.Equal(t, "user prompt", got.Messages[1].Content)
}

func TestGenerateJSONObjectModeWhenUnstructured(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(completion(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false, 0)
	_, err := c.GenerateJSON(context.Background(), "s", "u", "x", map[string]any{"type": "object"})
	require.NoError(t, err)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Nil(t, got.ResponseFormat.JSONSchema)
}

func TestGenerateTextRetriesOnRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(completion("hello"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false, 2)
	out, err := c.GenerateText(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGenerateTextDoesNotRetryBadRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false, 3)
	_, err := c.GenerateText(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "400", statusLabel(err))
}

func TestGenerateTextEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, false, 0)
	_, err := c.GenerateText(context.Background(), "s", "u")
	require.Error(t, err)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(logger.NewNop(), Config{})
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}
