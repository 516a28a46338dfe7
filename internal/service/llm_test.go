package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athleticore/backend/config"
)

func newLLMTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(&config.Config{
		LLMAPIKey:  "test-key",
		LLMAPIURL:  server.URL,
		LLMModel:   "test-model",
		LLMTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return svc
}

func TestCompleteSendsSystemPromptFirst(t *testing.T) {
	var got completionRequest
	svc := newLLMTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Hello there!"}},
			},
		})
	})

	reply, err := svc.Complete(context.Background(), "be helpful", []ChatMessage{
		{Role: "user", Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", reply)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be helpful", got.Messages[0].Content)
	assert.Equal(t, "hi", got.Messages[1].Content)
	assert.Equal(t, "test-model", got.Model)
}

func TestCompleteNonOKStatus(t *testing.T) {
	svc := newLLMTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := svc.Complete(context.Background(), "sys", nil)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCompleteEmptyChoices(t *testing.T) {
	svc := newLLMTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := svc.Complete(context.Background(), "sys", nil)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCompleteUnreachableHost(t *testing.T) {
	svc, err := NewLLMService(&config.Config{
		LLMAPIKey:  "test-key",
		LLMAPIURL:  "http://127.0.0.1:1",
		LLMModel:   "test-model",
		LLMTimeout: time.Second,
	})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "sys", nil)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestNewLLMServiceRequiresKey(t *testing.T) {
	_, err := NewLLMService(&config.Config{})
	assert.Error(t, err)
}
