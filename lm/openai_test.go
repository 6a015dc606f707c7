package lm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gotest.tools/v3/assert"
)

type chatRequest struct {
	Model       string    `json:"model"`
	Temperature *float64  `json:"temperature"`
	Messages    []Message `json:"messages"`
}

func newOpenAIServer(t *testing.T, status int, reply string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, r.URL.Path, "/v1/chat/completions")
		assert.Equal(t, r.Header.Get("Authorization"), "Bearer test-key")

		var req chatRequest
		assert.NilError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, req.Model, "gpt-4o-mini")
		assert.Assert(t, req.Temperature != nil, "temperature 0 must still be sent")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAICall(t *testing.T) {
	var calls int32
	srv := newOpenAIServer(t, http.StatusOK, "Paris", &calls)

	client, err := New(context.Background(), Config{
		Model:   "openai/gpt-4o-mini",
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
	})
	assert.NilError(t, err)
	assert.Equal(t, client.Model(), "openai/gpt-4o-mini")

	msgs := []Message{
		{Role: RoleSystem, Content: "Answer briefly."},
		{Role: RoleUser, Content: "What is the capital of France?"},
	}
	out, err := client.Call(context.Background(), msgs)
	assert.NilError(t, err)
	assert.Equal(t, out, "Paris")

	// no caching: a second identical call hits the server again
	_, err = client.Call(context.Background(), msgs)
	assert.NilError(t, err)
	assert.Equal(t, atomic.LoadInt32(&calls), int32(2))
}

func TestOpenAIAuthFailure(t *testing.T) {
	var calls int32
	srv := newOpenAIServer(t, http.StatusUnauthorized, "", &calls)

	client, err := NewOpenAI(Config{Model: "gpt-4o-mini", APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	assert.NilError(t, err)

	_, err = client.Call(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	var perr *ProviderError
	assert.Assert(t, errors.As(err, &perr))
	assert.Equal(t, perr.Provider, "openai")
	assert.Equal(t, atomic.LoadInt32(&calls), int32(1))
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "missing key", cfg: Config{Model: "openai/gpt-4o-mini"}, want: ErrMissingCredential},
		{name: "no provider", cfg: Config{Model: "gpt-4o-mini"}, want: ErrUnknownProvider},
		{name: "unknown provider", cfg: Config{Model: "acme/model-1"}, want: ErrUnknownProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.cfg)
			assert.Assert(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
