package scrutiny

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Model is the narrow interface the guardrail calls. Keeping it this small
// lets tests substitute a fake and keeps the non-deterministic network call
// isolated from the correction logic.
type Model interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatModel calls an OpenAI-compatible chat-completions endpoint (OpenRouter
// by default) in forced-JSON mode.
type ChatModel struct {
	llm *openai.LLM
}

// ChatModelConfig configures the upstream endpoint.
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "allenai/olmo-3.1-32b-think"

	temperature     = 0.1
	maxOutputTokens = 4000
)

func NewChatModel(cfg ChatModelConfig) (*ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat client: %w", err)
	}
	return &ChatModel{llm: llm}, nil
}

func (c *ChatModel) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, user),
		},
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxOutputTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}
	return resp.Choices[0].Content, nil
}
