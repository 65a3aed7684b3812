package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/domain"
	"github.com/auradesk/service-desk/internal/events"
	"github.com/auradesk/service-desk/internal/observability"
	"github.com/auradesk/service-desk/internal/repository"
	"github.com/auradesk/service-desk/pkg/util"
)

// allowedTransitions encodes the forward-only ticket lifecycle.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
}

// TicketService implements ticket workflows on top of the repository,
// cache and analysis engine.
type TicketService struct {
	tickets  repository.TicketRepository
	cache    *repository.TicketCache
	kb       repository.KBRepository
	analysis *AnalysisService
	events   events.Dispatcher
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// TicketDependencies bundles collaborators.
type TicketDependencies struct {
	Tickets  repository.TicketRepository
	Cache    *repository.TicketCache
	KB       repository.KBRepository
	Analysis *AnalysisService
	Events   events.Dispatcher
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:  deps.Tickets,
		cache:    deps.Cache,
		kb:       deps.KB,
		analysis: deps.Analysis,
		events:   deps.Events,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

// CreateTicketInput carries creation parameters.
type CreateTicketInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	Department  string
	Requester   domain.Requester
}

// Create validates and persists a new ticket. Missing categories are
// classified automatically; a matching knowledge base article, when
// one exists, is attached as an AI suggestion.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, util.NewValidationError("title is required", nil)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, util.NewValidationError("description is required", nil)
	}
	if strings.TrimSpace(input.Requester.ID) == "" {
		return nil, util.NewValidationError("requester id is required", nil)
	}
	if input.Category != "" && !domain.ValidCategory(input.Category) {
		return nil, util.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, util.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		ExternalKey: newExternalKey(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		Department:  input.Department,
		Requester:   input.Requester,
	}

	if ticket.Category == "" {
		category, confidence := s.analysis.Classify(ctx, ticket.Text(), domain.Categories())
		ticket.Category = category
		s.logger.Info("ticket auto-categorized",
			zap.String("external_key", ticket.ExternalKey),
			zap.String("category", string(category)),
			zap.Float64("confidence", confidence))
	}

	s.attachKBSuggestion(ctx, ticket)

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, util.MapError(err)
	}
	s.metrics.IncTicketsCreated()

	if err := s.cache.Set(ctx, ticket); err != nil {
		s.logger.Warn("ticket cache write failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	s.publish(ctx, events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		Category:    ticket.Category,
		Priority:    ticket.Priority,
		Title:       ticket.Title,
		RequesterID: ticket.Requester.ID,
	})

	return ticket, nil
}

// Get returns the ticket by ID, cache first.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, util.MapError(err)
	}
	if err := s.cache.Set(ctx, ticket); err != nil {
		s.logger.Warn("ticket cache write failed", zap.String("ticket_id", id), zap.Error(err))
	}
	return ticket, nil
}

// List returns tickets matching the filter plus the unpaged total.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	if filter.Status != nil && !validStatus(*filter.Status) {
		return nil, 0, util.NewValidationError("unknown status", map[string]any{"status": *filter.Status})
	}
	if filter.Category != nil && !domain.ValidCategory(*filter.Category) {
		return nil, 0, util.NewValidationError("unknown category", map[string]any{"category": *filter.Category})
	}
	tickets, total, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, util.MapError(err)
	}
	return tickets, total, nil
}

// Update applies a partial update. Status changes follow the
// forward-only lifecycle; anything else is rejected.
func (s *TicketService) Update(ctx context.Context, id string, update repository.TicketUpdate) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, util.MapError(err)
	}

	oldStatus := ticket.Status
	oldAssignee := ticket.AssignedTo

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, util.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = *update.Title
	}
	if update.Description != nil {
		if strings.TrimSpace(*update.Description) == "" {
			return nil, util.NewValidationError("description cannot be empty", nil)
		}
		ticket.Description = *update.Description
	}
	if update.Category != nil {
		if !domain.ValidCategory(*update.Category) {
			return nil, util.NewValidationError("unknown category", map[string]any{"category": *update.Category})
		}
		ticket.Category = *update.Category
	}
	if update.Priority != nil {
		if !domain.ValidPriority(*update.Priority) {
			return nil, util.NewValidationError("unknown priority", map[string]any{"priority": *update.Priority})
		}
		ticket.Priority = *update.Priority
	}
	if update.Status != nil && *update.Status != ticket.Status {
		if !validStatus(*update.Status) {
			return nil, util.NewValidationError("unknown status", map[string]any{"status": *update.Status})
		}
		if !transitionAllowed(ticket.Status, *update.Status) {
			return nil, util.NewConflict("status transition not allowed", map[string]any{
				"from": ticket.Status,
				"to":   *update.Status,
			})
		}
		ticket.Status = *update.Status
	}
	if update.AssignedTo != nil {
		ticket.AssignedTo = update.AssignedTo
	}
	if update.Resolution != nil {
		ticket.Resolution = update.Resolution
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, util.MapError(err)
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("ticket cache invalidation failed", zap.String("ticket_id", id), zap.Error(err))
	}

	if ticket.Status != oldStatus {
		if ticket.Status == domain.TicketStatusResolved {
			s.metrics.IncTicketsResolved()
		}
		s.publish(ctx, events.EventTicketStatusChanged, ticket.ID, events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		})
	}
	if update.AssignedTo != nil && assigneeChanged(oldAssignee, ticket.AssignedTo) {
		s.publish(ctx, events.EventTicketAssigned, ticket.ID, events.TicketAssignedPayload{
			AgentName: *ticket.AssignedTo,
		})
	}

	return ticket, nil
}

// Categorize re-runs classification on the stored ticket and persists
// the outcome.
func (s *TicketService) Categorize(ctx context.Context, id string) (*domain.Ticket, float64, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, 0, util.MapError(err)
	}

	oldCategory := ticket.Category
	category, confidence := s.analysis.Classify(ctx, ticket.Text(), domain.Categories())
	ticket.Category = category

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, 0, util.MapError(err)
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("ticket cache invalidation failed", zap.String("ticket_id", id), zap.Error(err))
	}

	s.publish(ctx, events.EventTicketCategorized, ticket.ID, events.TicketCategorizedPayload{
		OldCategory: oldCategory,
		NewCategory: category,
		Confidence:  confidence,
	})

	return ticket, confidence, nil
}

// Analyze runs the full decision engine on the stored ticket, using
// same-category resolved history as the candidate pool.
func (s *TicketService) Analyze(ctx context.Context, id string) (*domain.Ticket, *domain.AnalysisResult, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, nil, util.MapError(err)
	}

	historical := s.historicalPool(ctx, ticket)
	result := s.analysis.Analyze(ctx, ticket, historical)

	ticket.AISuggestions = append(ticket.AISuggestions, domain.AISuggestion{
		Type:    "analysis",
		Content: "Suggested agent: " + result.SuggestedAgent.Name,
	})
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Warn("persisting analysis suggestion failed", zap.String("ticket_id", id), zap.Error(err))
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("ticket cache invalidation failed", zap.String("ticket_id", id), zap.Error(err))
	}

	s.publish(ctx, events.EventTicketAnalyzed, ticket.ID, events.TicketAnalyzedPayload{
		SuggestedAgent: result.SuggestedAgent.Name,
		UsedFallback:   result.UsedFallback,
	})

	return ticket, result, nil
}

// historicalPool loads the same-category candidate pool. History is an
// enrichment input, so load failures degrade to an empty pool.
func (s *TicketService) historicalPool(ctx context.Context, ticket *domain.Ticket) []domain.Ticket {
	category := ticket.Category
	pool, _, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Category: &category,
		Limit:    historicalPoolCap,
	})
	if err != nil {
		s.logger.Warn("historical pool lookup failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil
	}
	return pool
}

// attachKBSuggestion links the best-matching knowledge base article,
// if any, to a freshly created ticket. Best effort only.
func (s *TicketService) attachKBSuggestion(ctx context.Context, ticket *domain.Ticket) {
	category := ticket.Category
	articles, _, err := s.kb.ListWithFilter(ctx, repository.KBFilter{Category: &category, Limit: 10})
	if err != nil || len(articles) == 0 {
		return
	}

	ticketTokens := tokenize(ticket.Text())
	var best *domain.KBArticle
	bestShared := 0
	for i := range articles {
		shared := intersectionSize(ticketTokens, tokenize(articles[i].Title+" "+strings.Join(articles[i].Tags, " ")))
		if shared > bestShared {
			bestShared = shared
			best = &articles[i]
		}
	}
	if best == nil {
		return
	}
	ticket.AISuggestions = append(ticket.AISuggestions, domain.AISuggestion{
		Type:    "kb_article",
		Content: "Related article: " + best.Title,
	})
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID string, payload any) {
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func transitionAllowed(from, to domain.TicketStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func validStatus(status domain.TicketStatus) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func assigneeChanged(old, current *string) bool {
	if current == nil {
		return false
	}
	return old == nil || *old != *current
}

func newExternalKey() string {
	return "TCK-" + strings.ToUpper(uuid.NewString()[:8])
}
