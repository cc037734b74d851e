// Package llm wraps the chat completion API used for query reformulation
// and answer synthesis. The endpoint is OpenAI-compatible; Groq is the
// default provider.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"legalease/internal/domain"
)

// Completer is the model call surface the pipeline depends on. Tests
// substitute a scripted implementation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []domain.Message, userInput string) (string, error)
}

// Client calls a chat completion endpoint.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

// Config configures the chat client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// New creates a chat client. A missing API key yields domain.ErrModelInit;
// the chat flow is blocked until credentials are fixed.
func New(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: missing API key in env %s", domain.ErrModelInit, cfg.APIKeyEnv)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		api:         openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends the system prompt, prior turns, and the user input to the
// model and returns the trimmed answer text.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []domain.Message, userInput string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    chatRole(m.Role),
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userInput,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func chatRole(r domain.Role) string {
	if r == domain.RoleHuman {
		return openai.ChatMessageRoleUser
	}
	return openai.ChatMessageRoleAssistant
}
