package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/ai"
	"github.com/auradesk/service-desk/internal/ai/prompt"
	"github.com/auradesk/service-desk/internal/domain"
	"github.com/auradesk/service-desk/internal/observability"
	"github.com/auradesk/service-desk/internal/repository"
)

const (
	// historicalPoolCap bounds the candidate pool per analysis.
	historicalPoolCap   = 50
	similarTopK         = 3
	historicalPromptCap = 15
	briefDescriptionLen = 50
)

// AnalysisService is the top-level decision engine: it combines the
// classifier, similarity ranking and routing recommendation into one
// complete AnalysisResult. Analyze never fails; total AI failure
// degrades richness, never completeness.
type AnalysisService struct {
	completions *ai.Client
	classifier  *ai.Classifier
	prompts     *prompt.Registry
	agents      repository.AgentDirectory
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// AnalysisDependencies bundles collaborators.
type AnalysisDependencies struct {
	Completions *ai.Client
	Classifier  *ai.Classifier
	Prompts     *prompt.Registry
	Agents      repository.AgentDirectory
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// NewAnalysisService constructs the service.
func NewAnalysisService(deps AnalysisDependencies) *AnalysisService {
	return &AnalysisService{
		completions: deps.Completions,
		classifier:  deps.Classifier,
		prompts:     deps.Prompts,
		agents:      deps.Agents,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
	}
}

// aiAnalysis mirrors the JSON payload the model is asked to produce.
type aiAnalysis struct {
	SuggestedProcessor struct {
		Name       string  `json:"name"`
		Reason     string  `json:"reason"`
		Confidence float64 `json:"confidence"`
	} `json:"suggested_processor"`
	SelfFixSuggestions []string `json:"self_fix_suggestions"`
	CategoryConfidence float64  `json:"category_confidence"`
	AdditionalInsights []string `json:"additional_insights"`
}

// Classify exposes the classifier to callers of the analysis engine.
func (s *AnalysisService) Classify(ctx context.Context, text string, categories []domain.TicketCategory) (domain.TicketCategory, float64) {
	return s.classifier.Classify(ctx, text, categories)
}

// RecommendAgent computes the routing decision for a ticket against
// the current directory roster.
func (s *AnalysisService) RecommendAgent(ticket *domain.Ticket) domain.RoutingDecision {
	return Recommend(ticket, s.agents.ListAgents())
}

// Analyze produces a complete recommendation for the ticket. Every
// field of the result is populated; fields the AI path could not fill
// carry deterministic fallback values and are counted as such.
func (s *AnalysisService) Analyze(ctx context.Context, ticket *domain.Ticket, historical []domain.Ticket) *domain.AnalysisResult {
	if len(historical) > historicalPoolCap {
		historical = historical[:historicalPoolCap]
	}

	categoryConfidence := ai.DefaultConfidence
	if ticket.Category == "" || !domain.ValidCategory(ticket.Category) {
		category, confidence := s.classifier.Classify(ctx, ticket.Text(), domain.Categories())
		ticket.Category = category
		categoryConfidence = confidence
	}

	// Similarity is deterministic and independent of AI availability.
	similar := RankSimilarTickets(ticket, historical, similarTopK)

	decision := s.RecommendAgent(ticket)

	result := &domain.AnalysisResult{
		SuggestedAgent:          suggestedAgentFromDecision(decision),
		SelfFixSuggestions:      selfFixSuggestions(ticket.Category),
		CategoryConfidence:      categoryConfidence,
		PriorityRecommendation:  priorityRecommendation(ticket),
		SimilarTickets:          similar,
		EstimatedResolutionTime: resolutionTimeEstimate(ticket.Priority),
		AdditionalInsights:      baselineInsights(ticket, similar),
	}

	aiFields, fallbackFields := s.enrichWithAI(ctx, ticket, historical, decision, result)
	result.UsedFallback = len(fallbackFields) > 0

	s.logger.Info("ticket analysis completed",
		zap.String("ticket_id", ticket.ID),
		zap.Strings("ai_fields", aiFields),
		zap.Strings("fallback_fields", fallbackFields))
	for _, field := range fallbackFields {
		s.metrics.RecordFallback(field)
	}

	return result
}

// enrichWithAI issues the single optional completion call and merges
// validated fields into the result. It returns the field names served
// by the AI path and those left on the deterministic baseline.
func (s *AnalysisService) enrichWithAI(ctx context.Context, ticket *domain.Ticket, historical []domain.Ticket, decision domain.RoutingDecision, result *domain.AnalysisResult) (aiFields, fallbackFields []string) {
	allFields := []string{"suggested_processor", "self_fix_suggestions", "category_confidence", "additional_insights"}

	parsed, err := s.requestAnalysis(ctx, ticket, historical)
	if err != nil {
		if !errors.Is(err, ai.ErrDisabled) {
			s.logger.Warn("AI analysis unavailable", zap.Error(err))
		}
		return nil, allFields
	}

	if decision.Agent != nil && parsed.SuggestedProcessor.Name == decision.Agent.Name &&
		strings.TrimSpace(parsed.SuggestedProcessor.Reason) != "" {
		result.SuggestedAgent.Reason = parsed.SuggestedProcessor.Reason
		aiFields = append(aiFields, "suggested_processor")
	} else {
		fallbackFields = append(fallbackFields, "suggested_processor")
	}

	if suggestions := nonEmptyStrings(parsed.SelfFixSuggestions); len(suggestions) > 0 {
		result.SelfFixSuggestions = suggestions
		aiFields = append(aiFields, "self_fix_suggestions")
	} else {
		fallbackFields = append(fallbackFields, "self_fix_suggestions")
	}

	if parsed.CategoryConfidence > 0 && parsed.CategoryConfidence <= 1 {
		result.CategoryConfidence = parsed.CategoryConfidence
		aiFields = append(aiFields, "category_confidence")
	} else {
		fallbackFields = append(fallbackFields, "category_confidence")
	}

	if insights := nonEmptyStrings(parsed.AdditionalInsights); len(insights) > 0 {
		result.AdditionalInsights = append(result.AdditionalInsights, insights...)
		aiFields = append(aiFields, "additional_insights")
	} else {
		fallbackFields = append(fallbackFields, "additional_insights")
	}

	return aiFields, fallbackFields
}

func (s *AnalysisService) requestAnalysis(ctx context.Context, ticket *domain.Ticket, historical []domain.Ticket) (*aiAnalysis, error) {
	agentsBlob, err := json.MarshalIndent(s.agents.ListAgents(), "", "  ")
	if err != nil {
		return nil, err
	}

	rendered, err := s.prompts.Render(prompt.TemplateTicketAnalysis, map[string]string{
		"title":              ticket.Title,
		"description":        ticket.Description,
		"category":           string(ticket.Category),
		"priority":           string(ticket.Priority),
		"department":         orUnknown(ticket.Department),
		"user_name":          orUnknown(ticket.Requester.Name),
		"user_email":         orUnknown(ticket.Requester.Email),
		"agents":             string(agentsBlob),
		"historical_context": historicalContext(historical),
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
		s.logger.Warn("malformed analysis completion",
			zap.String("raw", truncateForLog(completion.Response)))
		return nil, errors.New("analysis response contains no JSON object")
	}

	var parsed aiAnalysis
	if err := json.Unmarshal([]byte(completion.Response[start:end+1]), &parsed); err != nil {
		s.logger.Warn("malformed analysis completion",
			zap.String("raw", truncateForLog(completion.Response)),
			zap.Error(err))
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}
	return &parsed, nil
}

// historicalContext renders the bounded ticket pool as prompt context.
func historicalContext(historical []domain.Ticket) string {
	if len(historical) == 0 {
		return "Historical IT Support Tickets: none on record."
	}
	if len(historical) > historicalPromptCap {
		historical = historical[:historicalPromptCap]
	}

	var b strings.Builder
	b.WriteString("Historical IT Support Tickets:\n\n")
	for i := range historical {
		t := &historical[i]
		fmt.Fprintf(&b, "Ticket %s: %s\n", t.ExternalKey, t.Title)
		fmt.Fprintf(&b, "Category: %s\n", orUnknown(string(t.Category)))
		fmt.Fprintf(&b, "Priority: %s\n", orUnknown(string(t.Priority)))
		fmt.Fprintf(&b, "Status: %s\n", orUnknown(string(t.Status)))
		fmt.Fprintf(&b, "Description: %s\n", truncateForLog(t.Description))
		if t.AssignedTo != nil {
			fmt.Fprintf(&b, "Assigned to: %s\n", *t.AssignedTo)
		}
		if t.Resolution != nil {
			fmt.Fprintf(&b, "Resolution: %s\n", *t.Resolution)
		}
		b.WriteString("\n---\n\n")
	}
	return b.String()
}

func suggestedAgentFromDecision(decision domain.RoutingDecision) domain.SuggestedAgent {
	if decision.NoAgentAvailable() {
		return domain.SuggestedAgent{
			Name:         "No agent available",
			Reason:       decision.Justification,
			Confidence:   0,
			SkillsMatch:  []string{},
			Availability: "Unavailable",
		}
	}
	return domain.SuggestedAgent{
		Name:         decision.Agent.Name,
		Reason:       decision.Justification,
		Confidence:   decision.Confidence,
		SkillsMatch:  decision.MatchedSkills,
		Availability: string(decision.Agent.Availability),
	}
}

// selfFixSuggestions is the deterministic per-category baseline. The
// table is total over the category set.
func selfFixSuggestions(category domain.TicketCategory) []string {
	switch category {
	case domain.CategoryNetwork:
		return []string{
			"Check network cable connections",
			"Restart your router and modem",
			"Run Windows Network Troubleshooter",
			"Check if other devices can connect to the network",
		}
	case domain.CategoryEmail:
		return []string{
			"Check your internet connection",
			"Verify email server settings",
			"Clear browser cache and cookies",
			"Try accessing email from a different device",
		}
	case domain.CategorySoftware:
		return []string{
			"Restart the application",
			"Check for software updates",
			"Run the program as administrator",
			"Temporarily disable antivirus software",
		}
	case domain.CategoryHardware:
		return []string{
			"Check all cable connections",
			"Restart the device",
			"Check power supply connections",
			"Look for any visible damage or loose parts",
		}
	default:
		return []string{
			"Restart your computer",
			"Check for system updates",
			"Try the operation again",
			"Document any error messages you see",
		}
	}
}

// resolutionTimeEstimate maps priority to a free-text time bucket.
func resolutionTimeEstimate(priority domain.TicketPriority) string {
	switch priority {
	case domain.TicketPriorityCritical:
		return "1-2 hours"
	case domain.TicketPriorityHigh:
		return "4-6 hours"
	case domain.TicketPriorityMedium:
		return "1-2 business days"
	default:
		return "2-3 business days"
	}
}

var urgencyKeywords = []string{"urgent", "critical", "down", "offline"}

func priorityRecommendation(ticket *domain.Ticket) string {
	description := strings.ToLower(ticket.Description)
	belowHigh := ticket.Priority == domain.TicketPriorityLow || ticket.Priority == domain.TicketPriorityMedium

	if belowHigh {
		for _, keyword := range urgencyKeywords {
			if strings.Contains(description, keyword) {
				return "Consider upgrading to HIGH priority due to business impact keywords"
			}
		}
	}

	department := strings.ToLower(ticket.Department)
	if department == "executive" || department == "management" {
		return "Consider MEDIUM priority for executive department"
	}

	return fmt.Sprintf("Current %s priority appears appropriate", strings.ToUpper(string(ticket.Priority)))
}

func baselineInsights(ticket *domain.Ticket, similar []domain.SimilarTicket) []string {
	insights := []string{}
	if len(similar) > 0 {
		insights = append(insights, fmt.Sprintf("Found %d similar tickets that may provide resolution guidance", len(similar)))
	}
	if ticket.Department != "" {
		insights = append(insights, fmt.Sprintf("Department context: %s may have specific requirements", ticket.Department))
	}
	if len(ticket.Description) < briefDescriptionLen {
		insights = append(insights, "Ticket description is brief - may need additional information from user")
	}
	if len(insights) == 0 {
		insights = append(insights, "Standard troubleshooting procedures should be followed")
	}
	return insights
}

func nonEmptyStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Unknown"
	}
	return v
}

func truncateForLog(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
