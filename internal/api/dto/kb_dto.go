package dto

import (
	"time"

	"github.com/auradesk/service-desk/internal/domain"
)

// CreateArticleRequest payload.
type CreateArticleRequest struct {
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Category domain.TicketCategory `json:"category"`
	Tags     []string              `json:"tags"`
	Author   string                `json:"author"`
}

// ArticleResponse carries a full knowledge base article.
type ArticleResponse struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Content        string                `json:"content"`
	Category       domain.TicketCategory `json:"category"`
	Tags           []string              `json:"tags"`
	Author         string                `json:"author"`
	Views          int                   `json:"views"`
	HelpfulVotes   int                   `json:"helpful_votes"`
	UnhelpfulVotes int                   `json:"unhelpful_votes"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// SearchArticlesRequest payload.
type SearchArticlesRequest struct {
	Question string `json:"question"`
}

// ArticleMatchResponse is one ranked search result.
type ArticleMatchResponse struct {
	Article        ArticleResponse `json:"article"`
	RelevanceScore float64         `json:"relevance_score"`
	Reason         string          `json:"reason"`
}
