package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/ai/prompt"
	"github.com/auradesk/service-desk/internal/config"
	"github.com/auradesk/service-desk/internal/domain"
)

func newTestClassifier(chat ChatClient) *Classifier {
	var client *Client
	if chat == nil {
		client = NewClient(config.AIConfig{}, zap.NewNop())
	} else {
		client = NewClientWithChat(chat, testAIConfig(), zap.NewNop())
	}
	return NewClassifier(client, prompt.NewRegistry(), zap.NewNop())
}

func TestClassifyUsesModelAnswer(t *testing.T) {
	chat := &fakeChat{response: `{"category": "Network", "confidence": 0.93}`}
	classifier := newTestClassifier(chat)

	category, confidence := classifier.Classify(context.Background(), "WiFi keeps dropping", domain.Categories())
	assert.Equal(t, domain.CategoryNetwork, category)
	assert.InDelta(t, 0.93, confidence, 1e-6)
}

func TestClassifyExtractsJSONFromSurroundingText(t *testing.T) {
	chat := &fakeChat{response: "Sure! Here is my answer:\n{\"category\": \"Email\", \"confidence\": 0.9}\nHope that helps."}
	classifier := newTestClassifier(chat)

	category, confidence := classifier.Classify(context.Background(), "cannot send messages", domain.Categories())
	assert.Equal(t, domain.CategoryEmail, category)
	assert.InDelta(t, 0.9, confidence, 1e-6)
}

func TestClassifyFallsBackWhenDisabled(t *testing.T) {
	classifier := newTestClassifier(nil)

	tests := []struct {
		text string
		want domain.TicketCategory
	}{
		{"my email client crashes", domain.CategoryEmail},
		{"network printer unreachable", domain.CategoryNetwork},
		{"need access to the shared drive", domain.CategoryAccess},
		{"hardware failure on my laptop", domain.CategoryHardware},
		{"software license expired", domain.CategorySoftware},
		{"something strange happened", domain.CategoryOther},
		{"", domain.CategoryOther},
	}
	for _, tt := range tests {
		category, confidence := classifier.Classify(context.Background(), tt.text, domain.Categories())
		assert.Equal(t, tt.want, category, tt.text)
		assert.Equal(t, FallbackConfidence, confidence, tt.text)
	}
}

func TestClassifyFallsBackOnProviderError(t *testing.T) {
	chat := &fakeChat{err: errors.New("timeout")}
	classifier := newTestClassifier(chat)

	category, confidence := classifier.Classify(context.Background(), "network is down", domain.Categories())
	assert.Equal(t, domain.CategoryNetwork, category)
	assert.Equal(t, FallbackConfidence, confidence)
}

func TestClassifyFallsBackOnMalformedResponse(t *testing.T) {
	chat := &fakeChat{response: "I think it is a network problem"}
	classifier := newTestClassifier(chat)

	category, confidence := classifier.Classify(context.Background(), "email bounces", domain.Categories())
	assert.Equal(t, domain.CategoryEmail, category)
	assert.Equal(t, FallbackConfidence, confidence)
}

func TestClassifyFallsBackOnUnknownCategory(t *testing.T) {
	chat := &fakeChat{response: `{"category": "Quantum", "confidence": 0.99}`}
	classifier := newTestClassifier(chat)

	category, confidence := classifier.Classify(context.Background(), "hardware issue", domain.Categories())
	assert.Equal(t, domain.CategoryHardware, category)
	assert.Equal(t, FallbackConfidence, confidence)
}

func TestClassifyClampsConfidence(t *testing.T) {
	chat := &fakeChat{response: `{"category": "Software", "confidence": 1.7}`}
	classifier := newTestClassifier(chat)

	category, confidence := classifier.Classify(context.Background(), "app crashes", domain.Categories())
	assert.Equal(t, domain.CategorySoftware, category)
	assert.Equal(t, 1.0, confidence)
}

func TestClassifyIsDeterministicOnFallback(t *testing.T) {
	classifier := newTestClassifier(nil)

	first, _ := classifier.Classify(context.Background(), "cannot access network share", domain.Categories())
	for i := 0; i < 5; i++ {
		again, _ := classifier.Classify(context.Background(), "cannot access network share", domain.Categories())
		require.Equal(t, first, again)
	}
}
