// ABOUTME: Chat-completion client wrapping langchaingo's OpenAI model
// ABOUTME: Maps stored transcript turns onto role-tagged model messages

package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/chatrelay/chatrelay/internal/store"
)

// Completer produces one assistant reply for an ordered sequence of turns.
type Completer interface {
	Complete(ctx context.Context, turns []store.ChatMessage) (string, error)
}

// Client calls an OpenAI-compatible chat-completion API.
type Client struct {
	model       llms.Model
	temperature float64
}

// Options configures the chat-completion client.
type Options struct {
	APIKey      string
	BaseURL     string // empty means the public API
	Model       string
	Temperature float64
}

// New creates a chat-completion client.
func New(opts Options) (*Client, error) {
	modelOpts := []openai.Option{
		openai.WithToken(opts.APIKey),
		openai.WithModel(opts.Model),
	}
	if opts.BaseURL != "" {
		modelOpts = append(modelOpts, openai.WithBaseURL(opts.BaseURL))
	}

	model, err := openai.New(modelOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating openai model: %w", err)
	}

	return &Client{
		model:       model,
		temperature: opts.Temperature,
	}, nil
}

// Complete sends the turns as conversational context and returns the reply.
// The turns must already be in chronological order; they are forwarded as-is.
func (c *Client) Complete(ctx context.Context, turns []store.ChatMessage) (string, error) {
	messages := toModelMessages(turns)

	resp, err := c.model.GenerateContent(ctx, messages, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Content, nil
}

// toModelMessages converts stored turns into the model's message format.
// Unknown roles are treated as user turns; the store never produces them.
func toModelMessages(turns []store.ChatMessage) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(turns))
	for _, t := range turns {
		role := schema.ChatMessageTypeHuman
		if t.Role == store.RoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, t.Content))
	}
	return messages
}
