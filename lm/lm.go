// Package lm sends chat messages to a hosted language model.
//
// The model string selects the provider: "openai/gpt-4o-mini" uses the
// OpenAI chat completions API, "bedrock/anthropic.claude-3-haiku-20240307-v1:0"
// uses Bedrock InvokeModel. Each Call is a fresh request; nothing is
// retried or cached.
package lm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const DefaultMaxTokens = 1000

var (
	ErrMissingCredential = errors.New("API key not set")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrEmptyCompletion   = errors.New("no choices in response")
)

// Message is a chat message.
type Message struct {
	Role    string
	Content string
}

// LM is implemented by model clients.
type LM interface {
	Call(ctx context.Context, messages []Message) (string, error)
	Model() string
}

// Config selects and configures a model client.
type Config struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Callbacks   []Callback
}

// ProviderError wraps failures reported by a provider SDK.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// New builds the client named by cfg.Model and attaches cfg.Callbacks.
func New(ctx context.Context, cfg Config) (LM, error) {
	provider, model, ok := strings.Cut(cfg.Model, "/")
	if !ok || model == "" {
		return nil, fmt.Errorf("%w: model %q must look like provider/model", ErrUnknownProvider, cfg.Model)
	}
	cfg.Model = model
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	var client LM
	var err error
	switch provider {
	case "openai":
		client, err = NewOpenAI(cfg)
	case "bedrock":
		client, err = NewBedrock(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	if err != nil {
		return nil, err
	}
	if len(cfg.Callbacks) > 0 {
		client = Observe(client, cfg.Callbacks...)
	}
	return client, nil
}
