package events

import (
	"time"

	"github.com/auradesk/service-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketCategorized   EventType = "ticket_categorized"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketAnalyzed      EventType = "ticket_analyzed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Title       string                `json:"title"`
	RequesterID string                `json:"requester_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketCategorizedPayload payload.
type TicketCategorizedPayload struct {
	OldCategory domain.TicketCategory `json:"old_category"`
	NewCategory domain.TicketCategory `json:"new_category"`
	Confidence  float64               `json:"confidence"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AgentName  string  `json:"agent_name"`
	Confidence float64 `json:"confidence"`
}

// TicketAnalyzedPayload payload.
type TicketAnalyzedPayload struct {
	SuggestedAgent string `json:"suggested_agent"`
	UsedFallback   bool   `json:"used_fallback"`
}
