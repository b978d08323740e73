package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Compile-time interface check.
var _ Completer = (*OpenAIClient)(nil)

// ErrEmptyChoices is returned when the API answers without any choice.
var ErrEmptyChoices = errors.New("llm: empty choices in completion response")

// OpenAIClient implements Completer against the OpenAI chat completions API
// or any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*openaiSettings)

type openaiSettings struct {
	baseURL     string
	model       string
	temperature float32
	httpClient  *http.Client
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(u string) OpenAIOption {
	return func(s *openaiSettings) { s.baseURL = u }
}

// WithModel overrides the default model.
func WithModel(m string) OpenAIOption {
	return func(s *openaiSettings) { s.model = m }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) OpenAIOption {
	return func(s *openaiSettings) { s.temperature = t }
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(s *openaiSettings) { s.httpClient = hc }
}

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// NewOpenAIClient creates a client authenticated with apiKey.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	s := openaiSettings{model: DefaultModel}
	for _, opt := range opts {
		opt(&s)
	}

	cfg := openai.DefaultConfig(apiKey)
	if s.baseURL != "" {
		cfg.BaseURL = s.baseURL
	}
	if s.httpClient != nil {
		cfg.HTTPClient = s.httpClient
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       s.model,
		temperature: s.temperature,
	}
}

// Complete sends the system and user messages and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, p Prompt) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if p.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: p.User,
	})

	// A literal zero is dropped by omitempty and the API would then
	// apply its own default.
	temp := c.temperature
	if temp == 0 {
		temp = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temp,
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion (%s): %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}
