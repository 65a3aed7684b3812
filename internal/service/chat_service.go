package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/ai"
	"github.com/auradesk/service-desk/internal/ai/prompt"
	"github.com/auradesk/service-desk/pkg/util"
)

const (
	conversationTTL        = 30 * time.Minute
	conversationTurnsLimit = 10
)

// escalationKeywords force a hand-off to a human agent regardless of
// what the model answers.
var escalationKeywords = []string{"complex", "urgent", "manager", "escalate", "human agent"}

// ChatService answers self-service questions through the completion
// provider, with short-lived conversation memory in Redis.
type ChatService struct {
	completions *ai.Client
	prompts     *prompt.Registry
	redis       *redis.Client
	logger      *zap.Logger
}

// ChatDependencies bundles collaborators.
type ChatDependencies struct {
	Completions *ai.Client
	Prompts     *prompt.Registry
	Redis       *redis.Client
	Logger      *zap.Logger
}

// NewChatService constructs the service.
func NewChatService(deps ChatDependencies) *ChatService {
	return &ChatService{
		completions: deps.Completions,
		prompts:     deps.Prompts,
		redis:       deps.Redis,
		logger:      deps.Logger,
	}
}

// ChatReply is the outcome of one chat turn.
type ChatReply struct {
	Response string
	Escalate bool
}

type conversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Respond produces a reply for one user message within the given
// conversation. A dead AI path yields a canned reply that escalates.
func (s *ChatService) Respond(ctx context.Context, conversationID, message string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, util.NewValidationError("message is required", nil)
	}
	if strings.TrimSpace(conversationID) == "" {
		return nil, util.NewValidationError("conversation id is required", nil)
	}

	escalate := containsEscalationKeyword(message)
	history := s.loadHistory(ctx, conversationID)

	response, err := s.complete(ctx, message, history)
	if err != nil {
		if !errors.Is(err, ai.ErrDisabled) {
			s.logger.Warn("chat completion unavailable", zap.Error(err))
		}
		return &ChatReply{
			Response: "I'm currently unable to process your request automatically. Your question has been noted and a support agent will follow up with you shortly.",
			Escalate: true,
		}, nil
	}

	s.storeHistory(ctx, conversationID, append(history,
		conversationTurn{Role: "user", Content: message},
		conversationTurn{Role: "assistant", Content: response},
	))

	return &ChatReply{Response: response, Escalate: escalate}, nil
}

func (s *ChatService) complete(ctx context.Context, message string, history []conversationTurn) (string, error) {
	rendered, err := s.prompts.Render(prompt.TemplateChatbotResponse, map[string]string{
		"user_message": message,
		"context_info": renderHistory(history),
	})
	if err != nil {
		return "", err
	}
	completion, err := s.completions.Complete(ctx, rendered, ai.CompletionOptions{})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion.Response), nil
}

func renderHistory(history []conversationTurn) string {
	if len(history) == 0 {
		return "No prior conversation."
	}
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, turn := range history {
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ChatService) loadHistory(ctx context.Context, conversationID string) []conversationTurn {
	if s.redis == nil {
		return nil
	}
	payload, err := s.redis.Get(ctx, conversationKey(conversationID)).Bytes()
	if err != nil {
		return nil
	}
	var history []conversationTurn
	if err := json.Unmarshal(payload, &history); err != nil {
		return nil
	}
	return history
}

func (s *ChatService) storeHistory(ctx context.Context, conversationID string, history []conversationTurn) {
	if s.redis == nil {
		return
	}
	if len(history) > conversationTurnsLimit {
		history = history[len(history)-conversationTurnsLimit:]
	}
	payload, err := json.Marshal(history)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, conversationKey(conversationID), payload, conversationTTL).Err(); err != nil {
		s.logger.Warn("conversation store failed", zap.String("conversation_id", conversationID), zap.Error(err))
	}
}

func containsEscalationKeyword(message string) bool {
	lowered := strings.ToLower(message)
	for _, keyword := range escalationKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func conversationKey(id string) string {
	return "chat:conversation:" + id
}
