package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/ai"
	"github.com/auradesk/service-desk/internal/ai/prompt"
	"github.com/auradesk/service-desk/internal/config"
	"github.com/auradesk/service-desk/internal/domain"
	"github.com/auradesk/service-desk/internal/repository"
	apperrors "github.com/auradesk/service-desk/pkg/util"
)

func newKBService(chat ai.ChatClient, repo repository.KBRepository) *KBService {
	var completions *ai.Client
	if chat == nil {
		completions = ai.NewClient(config.AIConfig{}, zap.NewNop())
	} else {
		completions = ai.NewClientWithChat(chat, config.AIConfig{
			APIKey: "test-key", Model: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 1500, TimeoutSeconds: 5,
		}, zap.NewNop())
	}
	return NewKBService(KBDependencies{
		Articles:    repo,
		Completions: completions,
		Prompts:     prompt.NewRegistry(),
		Logger:      zap.NewNop(),
	})
}

func seededKBRepo() *fakeKBRepo {
	return &fakeKBRepo{articles: []domain.KBArticle{
		{
			ID:       "kb-1",
			Title:    "Resetting your VPN connection",
			Content:  "Steps to reset a stuck VPN tunnel and reconnect",
			Category: domain.CategoryNetwork,
			Tags:     []string{"vpn", "network"},
			Views:    10,
		},
		{
			ID:       "kb-2",
			Title:    "Configuring email signatures",
			Content:  "How to add and manage email signatures",
			Category: domain.CategoryEmail,
			Tags:     []string{"email"},
			Views:    50,
		},
		{
			ID:       "kb-3",
			Title:    "Requesting software licenses",
			Content:  "Process for requesting new software licenses",
			Category: domain.CategorySoftware,
			Tags:     []string{"software", "license"},
		},
	}}
}

func TestKBCreateValidation(t *testing.T) {
	svc := newKBService(nil, &fakeKBRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateArticleInput{Content: "body", Category: domain.CategoryOther})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Create(ctx, CreateArticleInput{Title: "t", Content: "body", Category: "Gadgets"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestKBCreateAndGetCountsViews(t *testing.T) {
	repo := &fakeKBRepo{}
	svc := newKBService(nil, repo)
	ctx := context.Background()

	article, err := svc.Create(ctx, CreateArticleInput{
		Title:    "Printer troubleshooting",
		Content:  "Check cables, drivers and queue",
		Category: domain.CategoryHardware,
	})
	require.NoError(t, err)
	require.NotEmpty(t, article.ID)
	assert.NotNil(t, article.Tags)

	got, err := svc.Get(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Printer troubleshooting", got.Title)

	stored, err := repo.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Views)
}

func TestKBSearchLexicalBaseline(t *testing.T) {
	svc := newKBService(nil, seededKBRepo())

	matches, err := svc.Search(context.Background(), "my vpn connection keeps dropping")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Resetting your VPN connection", matches[0].Article.Title)
	assert.Greater(t, matches[0].RelevanceScore, 0.0)
	assert.LessOrEqual(t, matches[0].RelevanceScore, 1.0)
}

func TestKBSearchEmptyQuestion(t *testing.T) {
	svc := newKBService(nil, seededKBRepo())

	_, err := svc.Search(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestKBSearchNoCandidates(t *testing.T) {
	svc := newKBService(nil, &fakeKBRepo{})

	matches, err := svc.Search(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestKBSearchAIRerank(t *testing.T) {
	chat := &scriptedChat{response: `{
		"recommended_articles": [
			{"title": "Configuring email signatures", "relevance_score": 0.9, "reason": "Directly covers signatures"}
		]
	}`}
	svc := newKBService(chat, seededKBRepo())

	matches, err := svc.Search(context.Background(), "how do I set up an email signature")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Configuring email signatures", matches[0].Article.Title)
	assert.Equal(t, "Directly covers signatures", matches[0].Reason)
}

func TestKBSearchIgnoresFabricatedTitles(t *testing.T) {
	chat := &scriptedChat{response: `{
		"recommended_articles": [
			{"title": "Article That Does Not Exist", "relevance_score": 0.99, "reason": "made up"}
		]
	}`}
	svc := newKBService(chat, seededKBRepo())

	matches, err := svc.Search(context.Background(), "vpn connection dropping constantly")
	require.NoError(t, err)
	// The fabricated ranking resolves to nothing; the baseline wins.
	require.NotEmpty(t, matches)
	assert.Equal(t, "Resetting your VPN connection", matches[0].Article.Title)
}
