package ai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/config"
)

type fakeChat struct {
	response string
	err      error
	lastReq  openai.ChatCompletionRequest
	calls    int
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.response}},
		},
		Usage: openai.Usage{TotalTokens: 42},
	}, nil
}

func testAIConfig() config.AIConfig {
	return config.AIConfig{
		APIKey:         "test-key",
		Model:          "gpt-3.5-turbo",
		Temperature:    0.7,
		MaxTokens:      1500,
		TimeoutSeconds: 5,
	}
}

func TestCompleteDisabledWithoutKey(t *testing.T) {
	client := NewClient(config.AIConfig{}, zap.NewNop())
	assert.False(t, client.Enabled())

	_, err := client.Complete(context.Background(), "hello", CompletionOptions{})
	require.ErrorIs(t, err, ErrDisabled)
}

func TestCompleteReturnsNormalizedResponse(t *testing.T) {
	chat := &fakeChat{response: "all good"}
	client := NewClientWithChat(chat, testAIConfig(), zap.NewNop())
	require.True(t, client.Enabled())

	completion, err := client.Complete(context.Background(), "diagnose this", CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "all good", completion.Response)
	assert.Equal(t, 42, completion.TokensUsed)
	assert.Equal(t, DefaultConfidence, completion.Confidence)
	assert.Equal(t, "gpt-3.5-turbo", completion.Model)
	assert.Equal(t, 1, chat.calls)
}

func TestCompleteAppliesOptionOverrides(t *testing.T) {
	chat := &fakeChat{response: "ok"}
	client := NewClientWithChat(chat, testAIConfig(), zap.NewNop())

	_, err := client.Complete(context.Background(), "q", CompletionOptions{
		Model:       "gpt-4",
		Temperature: 0.3,
		MaxTokens:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", chat.lastReq.Model)
	assert.InDelta(t, 0.3, float64(chat.lastReq.Temperature), 1e-6)
	assert.Equal(t, 100, chat.lastReq.MaxTokens)
}

func TestCompleteIncludesContextAsSystemMessage(t *testing.T) {
	chat := &fakeChat{response: "ok"}
	client := NewClientWithChat(chat, testAIConfig(), zap.NewNop())

	_, err := client.Complete(context.Background(), "q", CompletionOptions{
		Context: map[string]any{"department": "Finance"},
	})
	require.NoError(t, err)
	require.Len(t, chat.lastReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, chat.lastReq.Messages[0].Role)
	assert.Contains(t, chat.lastReq.Messages[0].Content, "Finance")
	assert.Equal(t, openai.ChatMessageRoleUser, chat.lastReq.Messages[1].Role)
}

func TestCompleteWrapsProviderError(t *testing.T) {
	chat := &fakeChat{err: errors.New("connection refused")}
	client := NewClientWithChat(chat, testAIConfig(), zap.NewNop())

	_, err := client.Complete(context.Background(), "q", CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	client := NewClientWithChat(emptyChoicesChat{}, testAIConfig(), zap.NewNop())

	_, err := client.Complete(context.Background(), "q", CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

type emptyChoicesChat struct{}

func (emptyChoicesChat) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}
