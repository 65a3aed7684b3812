package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/ai/prompt"
	"github.com/auradesk/service-desk/internal/domain"
)

// FallbackConfidence is attached to every keyword-rule classification.
// A fixed conservative constant, not a measured value.
const FallbackConfidence = 0.7

const (
	classifyTemperature = 0.3
	classifyMaxTokens   = 100
	rawTextPreviewLen   = 200
)

// Classifier maps ticket text to one of a fixed category set. It is
// total: every input yields a valid category, with the keyword rules
// covering provider failures and malformed completions.
type Classifier struct {
	client  *Client
	prompts *prompt.Registry
	logger  *zap.Logger
}

// NewClassifier constructs a classifier over the given completion client.
func NewClassifier(client *Client, prompts *prompt.Registry, logger *zap.Logger) *Classifier {
	return &Classifier{client: client, prompts: prompts, logger: logger}
}

type classification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Classify returns a category from the allowed set with a confidence
// score. It never fails; every AI-path error degrades to the
// deterministic keyword rule.
func (c *Classifier) Classify(ctx context.Context, text string, categories []domain.TicketCategory) (domain.TicketCategory, float64) {
	labels := make([]string, len(categories))
	for i, cat := range categories {
		labels[i] = string(cat)
	}

	rendered, err := c.prompts.Render(prompt.TemplateTicketCategorization, map[string]string{
		"categories":  strings.Join(labels, ", "),
		"title":       text,
		"description": text,
	})
	if err != nil {
		// Template problems are configuration errors; the rule
		// path still guarantees a usable answer.
		c.logger.Error("render categorization prompt", zap.Error(err))
		return keywordCategory(text), FallbackConfidence
	}

	completion, err := c.client.Complete(ctx, rendered, CompletionOptions{
		Temperature: classifyTemperature,
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		if !errors.Is(err, ErrDisabled) {
			c.logger.Warn("classification completion failed", zap.Error(err))
		}
		return keywordCategory(text), FallbackConfidence
	}

	parsed, ok := parseClassification(completion.Response)
	if !ok {
		c.logger.Warn("malformed classification response",
			zap.String("raw", truncate(completion.Response, rawTextPreviewLen)))
		return keywordCategory(text), FallbackConfidence
	}

	category := domain.TicketCategory(parsed.Category)
	if !memberOf(category, categories) {
		c.logger.Warn("classifier returned unknown category",
			zap.String("category", parsed.Category))
		return keywordCategory(text), FallbackConfidence
	}

	return category, clamp01(parsed.Confidence)
}

// parseClassification extracts the JSON object between the first '{'
// and last '}' of the model output and decodes it.
func parseClassification(raw string) (classification, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return classification{}, false
	}
	var parsed classification
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return classification{}, false
	}
	if parsed.Category == "" {
		return classification{}, false
	}
	return parsed, true
}

// keywordCategory is the deterministic rule path. It is total: any
// text, including empty, maps to a member of the fixed set.
func keywordCategory(text string) domain.TicketCategory {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "email"):
		return domain.CategoryEmail
	case strings.Contains(lowered, "network"):
		return domain.CategoryNetwork
	case strings.Contains(lowered, "access"):
		return domain.CategoryAccess
	case strings.Contains(lowered, "hardware"):
		return domain.CategoryHardware
	case strings.Contains(lowered, "software"):
		return domain.CategorySoftware
	default:
		return domain.CategoryOther
	}
}

func memberOf(c domain.TicketCategory, set []domain.TicketCategory) bool {
	for _, candidate := range set {
		if candidate == c {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
