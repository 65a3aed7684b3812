package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// TicketCategory is one of the fixed category labels every persisted
// ticket resolves to. The empty string marks an unclassified intake.
type TicketCategory string

const (
	CategoryHardware TicketCategory = "Hardware"
	CategorySoftware TicketCategory = "Software"
	CategoryNetwork  TicketCategory = "Network"
	CategoryAccess   TicketCategory = "Access"
	CategoryEmail    TicketCategory = "Email"
	CategoryOther    TicketCategory = "Other"
)

// Categories returns the fixed category set in canonical order.
func Categories() []TicketCategory {
	return []TicketCategory{
		CategoryHardware,
		CategorySoftware,
		CategoryNetwork,
		CategoryAccess,
		CategoryEmail,
		CategoryOther,
	}
}

// ValidCategory reports whether c is a member of the fixed set.
func ValidCategory(c TicketCategory) bool {
	for _, candidate := range Categories() {
		if candidate == c {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Requester identifies the end-user who reported the issue.
type Requester struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AISuggestion is an AI-generated annotation attached to a ticket.
type AISuggestion struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID            string
	ExternalKey   string
	Title         string
	Description   string
	Category      TicketCategory
	Priority      TicketPriority
	Status        TicketStatus
	Department    string
	Requester     Requester
	AssignedTo    *string
	Resolution    *string
	AISuggestions []AISuggestion
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Text returns the searchable text of the ticket, title plus description.
func (t *Ticket) Text() string {
	return t.Title + " " + t.Description
}
