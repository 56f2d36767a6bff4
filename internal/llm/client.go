// Package llm talks to an OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/observability"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible API.
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	defaultModel   = "llama3-70b-8192"
)

// Config holds client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements domain.Completer.
type Client struct {
	client openai.Client
	model  string
	logger *observability.Logger
}

var _ domain.Completer = (*Client)(nil)

// NewClient creates a client. Requests are never retried.
func NewClient(cfg Config, logger *observability.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ConfigError("LLM API key is required", nil)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if logger == nil {
		logger = observability.Nop()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger.WithOperation("llm"),
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends messages in order and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case domain.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", domain.LLMError("LLM request failed", describe(err))
	}
	if len(resp.Choices) == 0 {
		return "", domain.LLMError("LLM returned no choices", nil)
	}

	c.logger.Debug().
		Str("model", c.model).
		Int64("prompt_tokens", resp.Usage.PromptTokens).
		Int64("completion_tokens", resp.Usage.CompletionTokens).
		Dur("duration", time.Since(start)).
		Msg("completion received")

	return resp.Choices[0].Message.Content, nil
}

// describe flattens API errors to status and message so callers do not
// relay the raw request dump.
func describe(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(apiErr.RawJSON())
		}
		return fmt.Errorf("status %d: %s", apiErr.StatusCode, msg)
	}
	return err
}
