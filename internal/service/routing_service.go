package service

import (
	"fmt"
	"strings"

	"github.com/auradesk/service-desk/internal/domain"
	"github.com/auradesk/service-desk/internal/repository"
)

// Confidence tiers for routing recommendations. Fixed constants by
// design: the recommender has no calibrated model behind it.
const (
	ConfidenceSkillMatch   = 0.85
	ConfidencePartialMatch = 0.70
	ConfidenceFallback     = 0.60
)

// RoutingService picks the best available agent for a ticket.
type RoutingService struct {
	agents repository.AgentDirectory
}

// NewRoutingService constructs the service.
func NewRoutingService(agents repository.AgentDirectory) *RoutingService {
	return &RoutingService{agents: agents}
}

// RecommendAgent resolves the directory roster and delegates to Recommend.
func (s *RoutingService) RecommendAgent(ticket *domain.Ticket) domain.RoutingDecision {
	return Recommend(ticket, s.agents.ListAgents())
}

// Recommend selects the best available agent by skill/category overlap.
// When no available agent matches, the first available agent becomes a
// generic fallback at the lowest confidence tier. When nobody is
// available at all, the decision explicitly carries no agent; an
// assignee is never fabricated.
func Recommend(ticket *domain.Ticket, agents []domain.Agent) domain.RoutingDecision {
	category := strings.ToLower(string(ticket.Category))

	var best *domain.Agent
	bestConfidence := 0.0
	var bestMatched []string
	var firstAvailable *domain.Agent

	for i := range agents {
		agent := &agents[i]
		if agent.Availability != domain.AgentAvailable {
			continue
		}
		if firstAvailable == nil {
			firstAvailable = agent
		}
		if category == "" {
			continue
		}

		exact := []string{}
		loose := []string{}
		for _, skill := range agent.Skills {
			lowered := strings.ToLower(skill)
			switch {
			case strings.Contains(category, lowered):
				exact = append(exact, skill)
			case strings.Contains(lowered, category):
				loose = append(loose, skill)
			}
		}
		if len(exact) == 0 && len(loose) == 0 {
			continue
		}

		confidence := ConfidencePartialMatch
		matched := loose
		if len(exact) > 0 {
			confidence = ConfidenceSkillMatch
			matched = exact
		}
		if confidence > bestConfidence {
			best = agent
			bestConfidence = confidence
			bestMatched = matched
		}
	}

	if best != nil {
		return domain.RoutingDecision{
			Agent:      best,
			Confidence: bestConfidence,
			Justification: fmt.Sprintf("Best match for %s category with %s skills",
				displayCategory(ticket.Category), strings.Join(bestMatched, ", ")),
			MatchedSkills: bestMatched,
		}
	}

	if firstAvailable != nil {
		return domain.RoutingDecision{
			Agent:      firstAvailable,
			Confidence: ConfidenceFallback,
			Justification: fmt.Sprintf("No skill match for %s category; first available agent assigned",
				displayCategory(ticket.Category)),
			MatchedSkills: []string{},
		}
	}

	return domain.RoutingDecision{
		Agent:         nil,
		Confidence:    0,
		Justification: "No agent available",
		MatchedSkills: []string{},
	}
}

func displayCategory(c domain.TicketCategory) string {
	if c == "" {
		return "this"
	}
	return string(c)
}
