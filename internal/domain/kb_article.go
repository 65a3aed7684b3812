package domain

import "time"

// KBArticle is a knowledge base entry offered to requesters as
// self-service material.
type KBArticle struct {
	ID             string
	Title          string
	Content        string
	Category       TicketCategory
	Tags           []string
	Author         string
	Views          int
	HelpfulVotes   int
	UnhelpfulVotes int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
