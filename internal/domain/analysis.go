package domain

// SuggestedAgent is the routing portion of an analysis result.
type SuggestedAgent struct {
	Name         string   `json:"name"`
	Reason       string   `json:"reason"`
	Confidence   float64  `json:"confidence"`
	SkillsMatch  []string `json:"skills_match"`
	Availability string   `json:"availability_status"`
}

// SimilarTicket is one entry of the similarity ranking.
type SimilarTicket struct {
	Title              string  `json:"title"`
	SimilarityScore    float64 `json:"similarity_score"`
	ResolutionApproach string  `json:"resolution_approach"`
}

// AnalysisResult is the complete outcome of a ticket analysis. Every
// field is always populated; when the AI path fails, deterministic
// fallback values fill the gaps so consumers never branch on absence.
type AnalysisResult struct {
	SuggestedAgent          SuggestedAgent  `json:"suggested_processor"`
	SelfFixSuggestions      []string        `json:"self_fix_suggestions"`
	CategoryConfidence      float64         `json:"category_confidence"`
	PriorityRecommendation  string          `json:"priority_recommendation"`
	SimilarTickets          []SimilarTicket `json:"similar_tickets"`
	EstimatedResolutionTime string          `json:"estimated_resolution_time"`
	AdditionalInsights      []string        `json:"additional_insights"`
	UsedFallback            bool            `json:"used_fallback"`
}

// RoutingDecision is the outcome of the routing recommender. A nil
// Agent means no agent is available, which is a legitimate terminal
// outcome, not an error.
type RoutingDecision struct {
	Agent         *Agent
	Confidence    float64
	Justification string
	MatchedSkills []string
}

// NoAgentAvailable reports whether the decision carries no assignee.
func (d RoutingDecision) NoAgentAvailable() bool {
	return d.Agent == nil
}
