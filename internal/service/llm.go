package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/athleticore/backend/config"
)

// ChatMessage represents a message in the chat
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionRequest represents a request to the chat-completions API
type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// LLMService sends prompts to an OpenAI-compatible chat-completions endpoint.
// It is stateless: callers pass the system prompt and the full ordered history
// on every call, and no retries happen at this layer.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

var _ ChatModel = (*LLMService)(nil)

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg *config.Config) (*LLMService, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY must be set")
	}

	return &LLMService{
		apiKey: cfg.LLMAPIKey,
		apiURL: cfg.LLMAPIURL,
		model:  cfg.LLMModel,
		client: &http.Client{Timeout: cfg.LLMTimeout},
	}, nil
}

// Complete sends the system prompt plus ordered messages and returns the raw
// assistant reply. Transport errors, timeouts, non-200 statuses and undecodable
// bodies all surface as ErrGatewayUnavailable with the cause attached.
func (s *LLMService) Complete(ctx context.Context, systemPrompt string, messages []ChatMessage) (string, error) {
	payload := make([]ChatMessage, 0, len(messages)+1)
	payload = append(payload, ChatMessage{Role: "system", Content: systemPrompt})
	payload = append(payload, messages...)

	reqBody := completionRequest{
		Model:       s.model,
		Messages:    payload,
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrGatewayUnavailable, err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrGatewayUnavailable)
	}

	return result.Choices[0].Message.Content, nil
}
