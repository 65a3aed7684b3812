package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/ai"
	"github.com/auradesk/service-desk/internal/ai/prompt"
	"github.com/auradesk/service-desk/internal/domain"
	"github.com/auradesk/service-desk/internal/repository"
	"github.com/auradesk/service-desk/pkg/util"
)

const (
	kbSearchCandidateLimit = 50
	kbSearchMaxResults     = 5
)

// KBService manages knowledge base articles and self-service search.
type KBService struct {
	articles    repository.KBRepository
	completions *ai.Client
	prompts     *prompt.Registry
	logger      *zap.Logger
}

// KBDependencies bundles collaborators.
type KBDependencies struct {
	Articles    repository.KBRepository
	Completions *ai.Client
	Prompts     *prompt.Registry
	Logger      *zap.Logger
}

// NewKBService constructs the service.
func NewKBService(deps KBDependencies) *KBService {
	return &KBService{
		articles:    deps.Articles,
		completions: deps.Completions,
		prompts:     deps.Prompts,
		logger:      deps.Logger,
	}
}

// CreateArticleInput carries creation parameters.
type CreateArticleInput struct {
	Title    string
	Content  string
	Category domain.TicketCategory
	Tags     []string
	Author   string
}

// Create validates and persists a new article.
func (s *KBService) Create(ctx context.Context, input CreateArticleInput) (*domain.KBArticle, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, util.NewValidationError("title is required", nil)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, util.NewValidationError("content is required", nil)
	}
	if !domain.ValidCategory(input.Category) {
		return nil, util.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}

	article := &domain.KBArticle{
		Title:    input.Title,
		Content:  input.Content,
		Category: input.Category,
		Tags:     input.Tags,
		Author:   input.Author,
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, util.MapError(err)
	}
	return article, nil
}

// Get returns the article by ID and records the view.
func (s *KBService) Get(ctx context.Context, id string) (*domain.KBArticle, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, util.MapError(err)
	}
	if err := s.articles.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("view counter update failed", zap.String("article_id", id), zap.Error(err))
	}
	return article, nil
}

// List returns articles matching the filter plus the unpaged total.
func (s *KBService) List(ctx context.Context, filter repository.KBFilter) ([]domain.KBArticle, int, error) {
	if filter.Category != nil && !domain.ValidCategory(*filter.Category) {
		return nil, 0, util.NewValidationError("unknown category", map[string]any{"category": *filter.Category})
	}
	articles, total, err := s.articles.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, util.MapError(err)
	}
	return articles, total, nil
}

// ArticleMatch is one ranked search result.
type ArticleMatch struct {
	Article        domain.KBArticle
	RelevanceScore float64
	Reason         string
}

// Search ranks articles against a free-text question. Lexical overlap
// provides the baseline ranking; when the AI path is available its
// re-ranking replaces the baseline order.
func (s *KBService) Search(ctx context.Context, question string) ([]ArticleMatch, error) {
	if strings.TrimSpace(question) == "" {
		return nil, util.NewValidationError("question is required", nil)
	}

	candidates, _, err := s.articles.ListWithFilter(ctx, repository.KBFilter{Limit: kbSearchCandidateLimit})
	if err != nil {
		return nil, util.MapError(err)
	}
	if len(candidates) == 0 {
		return []ArticleMatch{}, nil
	}

	baseline := lexicalRank(question, candidates)

	reranked, err := s.rerank(ctx, question, candidates, baseline)
	if err != nil {
		if !errors.Is(err, ai.ErrDisabled) {
			s.logger.Warn("AI article ranking unavailable", zap.Error(err))
		}
		return baseline, nil
	}
	return reranked, nil
}

// lexicalRank scores candidates by token overlap with the question.
func lexicalRank(question string, candidates []domain.KBArticle) []ArticleMatch {
	questionTokens := tokenize(question)

	matches := []ArticleMatch{}
	for i := range candidates {
		article := &candidates[i]
		articleTokens := tokenize(article.Title + " " + strings.Join(article.Tags, " ") + " " + article.Content)
		shared := intersectionSize(questionTokens, articleTokens)
		if shared == 0 {
			continue
		}
		denominator := len(questionTokens)
		if denominator == 0 {
			continue
		}
		score := float64(shared) / float64(denominator)
		if score > 1 {
			score = 1
		}
		matches = append(matches, ArticleMatch{
			Article:        *article,
			RelevanceScore: score,
			Reason:         "Keyword match",
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].RelevanceScore != matches[j].RelevanceScore {
			return matches[i].RelevanceScore > matches[j].RelevanceScore
		}
		return matches[i].Article.Views > matches[j].Article.Views
	})
	if len(matches) > kbSearchMaxResults {
		matches = matches[:kbSearchMaxResults]
	}
	return matches
}

type rerankedArticle struct {
	Title          string  `json:"title"`
	RelevanceScore float64 `json:"relevance_score"`
	Reason         string  `json:"reason"`
}

func (s *KBService) rerank(ctx context.Context, question string, candidates []domain.KBArticle, baseline []ArticleMatch) ([]ArticleMatch, error) {
	summaries := make([]map[string]any, 0, len(candidates))
	for i := range candidates {
		summaries = append(summaries, map[string]any{
			"title":    candidates[i].Title,
			"category": candidates[i].Category,
			"tags":     candidates[i].Tags,
		})
	}
	blob, err := json.Marshal(summaries)
	if err != nil {
		return nil, err
	}

	rendered, err := s.prompts.Render(prompt.TemplateKBSearch, map[string]string{
		"question":    question,
		"articles":    string(blob),
		"max_results": fmt.Sprintf("%d", kbSearchMaxResults),
	})
	if err != nil {
		return nil, err
	}

	completion, err := s.completions.Complete(ctx, rendered, ai.CompletionOptions{})
	if err != nil {
		return nil, err
	}

	start := strings.Index(completion.Response, "{")
	end := strings.LastIndex(completion.Response, "}")
	if start < 0 || end <= start {
		return nil, errors.New("ranking response contains no JSON object")
	}
	var parsed struct {
		RecommendedArticles []rerankedArticle `json:"recommended_articles"`
	}
	if err := json.Unmarshal([]byte(completion.Response[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("decode ranking response: %w", err)
	}

	byTitle := make(map[string]*domain.KBArticle, len(candidates))
	for i := range candidates {
		byTitle[strings.ToLower(candidates[i].Title)] = &candidates[i]
	}

	// Only titles that resolve back to real candidates survive; an
	// entirely unusable ranking falls back to the baseline order.
	matches := []ArticleMatch{}
	for _, ranked := range parsed.RecommendedArticles {
		article, ok := byTitle[strings.ToLower(ranked.Title)]
		if !ok {
			continue
		}
		score := ranked.RelevanceScore
		if score < 0 || score > 1 {
			score = 0
		}
		matches = append(matches, ArticleMatch{
			Article:        *article,
			RelevanceScore: score,
			Reason:         ranked.Reason,
		})
		if len(matches) == kbSearchMaxResults {
			break
		}
	}
	if len(matches) == 0 {
		return baseline, nil
	}
	return matches, nil
}
