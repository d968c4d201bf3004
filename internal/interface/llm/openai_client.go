package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flightscout-service/internal/domain/repository"
	"flightscout-service/pkg/httpx"
	"flightscout-service/pkg/logger"
)

// Config configures an OpenAI-compatible chat completions endpoint
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIClient implements TextGenerator over the chat completions API
type OpenAIClient struct {
	config     Config
	endpoint   string
	httpClient *http.Client
	logger     logger.Logger
}

var _ repository.TextGenerator = (*OpenAIClient)(nil)

// NewOpenAIClient creates a new chat completions client
func NewOpenAIClient(config Config, logger logger.Logger) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, errors.New("llm: API key is required")
	}
	if config.Model == "" {
		return nil, errors.New("llm: model is required")
	}
	if config.Timeout <= 0 {
		return nil, errors.New("llm: timeout must be positive")
	}

	return &OpenAIClient{
		config:     config,
		endpoint:   strings.TrimSuffix(config.BaseURL, "/") + "/chat/completions",
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}, nil
}

// ChatMessage is one message of a conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// ChatCompletionRequest is the request body of the chat completions API
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// ChatCompletionResponse is the subset of the response we read
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateJSON asks the model for a single JSON object and returns its raw text.
// The whole call, including the response body, is bounded by the client timeout.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	request := ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0.2,
		MaxTokens:      600,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	var response ChatCompletionResponse
	err = httpx.DoJSON(ctx, c.httpClient, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		return req, nil
	}, &response, httpx.NoRetry())
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("chat completion returned empty content")
	}

	c.logger.Debug("Chat completion received",
		"model", response.Model,
		"totalTokens", response.Usage.TotalTokens,
	)
	return content, nil
}
