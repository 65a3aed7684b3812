// Package ai wraps the external text-completion provider and the
// classification logic built on top of it. Every caller must treat a
// failed completion identically: fall back to the deterministic rule
// path and never surface the raw failure to end users.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/config"
)

// ErrDisabled signals the client was constructed without credentials.
// Callers get it immediately, without network I/O.
var ErrDisabled = errors.New("ai service disabled: no API key configured")

// DefaultConfidence is attached to every successful completion. The
// provider returns no calibrated confidence, so this is a fixed
// placeholder, a known approximation rather than a measured value.
const DefaultConfidence = 0.8

// ChatClient is the minimal completion surface this service needs from
// the provider SDK. Tests substitute fakes.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// CompletionOptions tune a single completion call. Zero values fall
// back to the configured defaults.
type CompletionOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Context     map[string]any
}

// Completion is the normalized successful response.
type Completion struct {
	Response   string
	Model      string
	TokensUsed int
	Elapsed    time.Duration
	Confidence float64
}

// Client wraps calls to the completion provider with timeout and
// error normalization.
type Client struct {
	chat     ChatClient
	cfg      config.AIConfig
	logger   *zap.Logger
	disabled bool
	warnOnce sync.Once
}

// NewClient builds a Client from configuration. An empty API key
// yields a disabled client whose Complete short-circuits.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	c := &Client{cfg: cfg, logger: logger}
	if cfg.APIKey == "" {
		c.disabled = true
		return c
	}
	c.chat = openai.NewClient(cfg.APIKey)
	logger.Info("completion client initialized", zap.String("model", cfg.Model))
	return c
}

// NewClientWithChat builds a Client around an existing ChatClient.
// Used by tests to inject fakes.
func NewClientWithChat(chat ChatClient, cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{chat: chat, cfg: cfg, logger: logger, disabled: chat == nil}
}

// Enabled reports whether the AI path is usable at all.
func (c *Client) Enabled() bool {
	return !c.disabled
}

// Complete performs one blocking completion call, bounded by the
// configured timeout. Any failure, unreachable provider, timeout or
// non-success status, comes back as an error the caller must absorb
// via its fallback rules.
func (c *Client) Complete(ctx context.Context, prompt string, opts CompletionOptions) (*Completion, error) {
	if c.disabled {
		c.warnOnce.Do(func() {
			c.logger.Warn("AI features disabled: no API key configured")
		})
		return nil, ErrDisabled
	}

	model := opts.Model
	if model == "" {
		model = c.cfg.Model
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxTokens
	}

	messages := []openai.ChatCompletionMessage{}
	if len(opts.Context) > 0 {
		contextBlob, err := json.MarshalIndent(opts.Context, "", "  ")
		if err == nil {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Context information:\n" + string(contextBlob),
			})
		}
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	start := time.Now()
	resp, err := c.chat.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(temperature),
		MaxTokens:   maxTokens,
	})
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("completion call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("completion call: no choices in response")
	}

	c.logger.Debug("completion generated",
		zap.Duration("elapsed", elapsed),
		zap.Int("tokens", resp.Usage.TotalTokens))

	return &Completion{
		Response:   resp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
		Elapsed:    elapsed,
		Confidence: DefaultConfidence,
	}, nil
}
