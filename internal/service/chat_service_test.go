package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/ai"
	"github.com/auradesk/service-desk/internal/ai/prompt"
	"github.com/auradesk/service-desk/internal/config"
	apperrors "github.com/auradesk/service-desk/pkg/util"
)

func newChatService(t *testing.T, chat ai.ChatClient) (*ChatService, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	var completions *ai.Client
	if chat == nil {
		completions = ai.NewClient(config.AIConfig{}, zap.NewNop())
	} else {
		completions = ai.NewClientWithChat(chat, config.AIConfig{
			APIKey: "test-key", Model: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 1500, TimeoutSeconds: 5,
		}, zap.NewNop())
	}

	svc := NewChatService(ChatDependencies{
		Completions: completions,
		Prompts:     prompt.NewRegistry(),
		Redis:       client,
		Logger:      zap.NewNop(),
	})
	return svc, server
}

func TestChatRespondValidation(t *testing.T) {
	svc, _ := newChatService(t, nil)
	ctx := context.Background()

	_, err := svc.Respond(ctx, "conv-1", "  ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Respond(ctx, "", "my vpn is broken")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestChatRespondWithAI(t *testing.T) {
	chat := &scriptedChat{response: "Try restarting your VPN client first."}
	svc, _ := newChatService(t, chat)

	reply, err := svc.Respond(context.Background(), "conv-1", "my vpn stopped working")
	require.NoError(t, err)
	assert.Equal(t, "Try restarting your VPN client first.", reply.Response)
	assert.False(t, reply.Escalate)
}

func TestChatEscalationKeywords(t *testing.T) {
	chat := &scriptedChat{response: "Let me route you to a colleague."}
	svc, _ := newChatService(t, chat)

	for _, message := range []string{
		"this is urgent, production is down",
		"I want to speak to a manager",
		"please escalate this ticket",
		"connect me with a human agent",
		"this problem is too complex for a bot",
	} {
		reply, err := svc.Respond(context.Background(), "conv-1", message)
		require.NoError(t, err)
		assert.True(t, reply.Escalate, message)
	}
}

func TestChatFallsBackWhenAIUnavailable(t *testing.T) {
	svc, _ := newChatService(t, nil)

	reply, err := svc.Respond(context.Background(), "conv-1", "printer will not print")
	require.NoError(t, err)
	assert.True(t, reply.Escalate)
	assert.Contains(t, reply.Response, "support agent")
}

func TestChatStoresConversationHistory(t *testing.T) {
	chat := &scriptedChat{response: "Understood."}
	svc, server := newChatService(t, chat)
	ctx := context.Background()

	_, err := svc.Respond(ctx, "conv-42", "hello there")
	require.NoError(t, err)

	key := "chat:conversation:conv-42"
	require.True(t, server.Exists(key))
	ttl := server.TTL(key)
	assert.Greater(t, ttl.Minutes(), 0.0)
	assert.LessOrEqual(t, ttl.Minutes(), 30.0)

	history := svc.loadHistory(ctx, "conv-42")
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "hello there", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestChatHistoryIsBounded(t *testing.T) {
	chat := &scriptedChat{response: "ok"}
	svc, _ := newChatService(t, chat)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.Respond(ctx, "conv-b", "message number "+string(rune('a'+i)))
		require.NoError(t, err)
	}

	history := svc.loadHistory(ctx, "conv-b")
	assert.LessOrEqual(t, len(history), conversationTurnsLimit)
}
