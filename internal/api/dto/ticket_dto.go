package dto

import (
	"time"

	"github.com/auradesk/service-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Department  string                `json:"department"`
	UserID      string                `json:"user_id"`
	UserEmail   string                `json:"user_email"`
	UserName    string                `json:"user_name"`
}

// UpdateTicketRequest carries the partial update payload; omitted
// fields stay untouched.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Category    *domain.TicketCategory `json:"category"`
	Priority    *domain.TicketPriority `json:"priority"`
	Status      *domain.TicketStatus   `json:"status"`
	AssignedTo  *string                `json:"assigned_to"`
	Resolution  *string                `json:"resolution"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string                `json:"id"`
	ExternalKey string                `json:"external_key"`
	Title       string                `json:"title"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	Department  string                `json:"department"`
	AssignedTo  *string               `json:"assigned_to"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID            string                  `json:"id"`
	ExternalKey   string                  `json:"external_key"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Category      domain.TicketCategory   `json:"category"`
	Priority      domain.TicketPriority   `json:"priority"`
	Status        domain.TicketStatus     `json:"status"`
	Department    string                  `json:"department"`
	UserID        string                  `json:"user_id"`
	UserEmail     string                  `json:"user_email"`
	UserName      string                  `json:"user_name"`
	AssignedTo    *string                 `json:"assigned_to"`
	Resolution    *string                 `json:"resolution"`
	AISuggestions []domain.AISuggestion   `json:"ai_suggestions"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// CategorizeResponse reports the re-classification outcome.
type CategorizeResponse struct {
	Category   domain.TicketCategory `json:"category"`
	Confidence float64               `json:"confidence"`
}

// AnalysisResponse wraps the full decision engine output.
type AnalysisResponse struct {
	TicketID string                 `json:"ticket_id"`
	Analysis *domain.AnalysisResult `json:"analysis"`
}
