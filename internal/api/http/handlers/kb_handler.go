package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/auradesk/service-desk/internal/api/dto"
	"github.com/auradesk/service-desk/internal/domain"
	"github.com/auradesk/service-desk/internal/repository"
	"github.com/auradesk/service-desk/internal/service"
	apperrors "github.com/auradesk/service-desk/pkg/util"
)

// KBHandler manages knowledge base endpoints.
type KBHandler struct {
	service *service.KBService
}

// NewKBHandler constructs handler.
func NewKBHandler(kbService *service.KBService) *KBHandler {
	return &KBHandler{service: kbService}
}

// CreateArticle POST /api/kb/articles.
func (h *KBHandler) CreateArticle(c *fiber.Ctx) error {
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.Create(c.UserContext(), service.CreateArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Author:   req.Author,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": articleResponse(article)})
}

// GetArticle GET /api/kb/articles/:id.
func (h *KBHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// ListArticles GET /api/kb/articles.
func (h *KBHandler) ListArticles(c *fiber.Ctx) error {
	filter := repository.KBFilter{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("category"); raw != "" {
		category := domain.TicketCategory(raw)
		filter.Category = &category
	}

	articles, total, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, articleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{
		"data": items,
		"meta": fiber.Map{
			"total":  total,
			"limit":  filter.Limit,
			"offset": filter.Offset,
		},
	})
}

// SearchArticles POST /api/kb/search.
func (h *KBHandler) SearchArticles(c *fiber.Ctx) error {
	var req dto.SearchArticlesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	matches, err := h.service.Search(c.UserContext(), req.Question)
	if err != nil {
		return err
	}
	items := make([]dto.ArticleMatchResponse, 0, len(matches))
	for i := range matches {
		items = append(items, dto.ArticleMatchResponse{
			Article:        articleResponse(&matches[i].Article),
			RelevanceScore: matches[i].RelevanceScore,
			Reason:         matches[i].Reason,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func articleResponse(article *domain.KBArticle) dto.ArticleResponse {
	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.ArticleResponse{
		ID:             article.ID,
		Title:          article.Title,
		Content:        article.Content,
		Category:       article.Category,
		Tags:           tags,
		Author:         article.Author,
		Views:          article.Views,
		HelpfulVotes:   article.HelpfulVotes,
		UnhelpfulVotes: article.UnhelpfulVotes,
		CreatedAt:      article.CreatedAt,
		UpdatedAt:      article.UpdatedAt,
	}
}
