package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/auradesk/service-desk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Agents  *handlers.AgentsHandler
	KB      *handlers.KBHandler
	Chat    *handlers.ChatHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/categorize", cfg.Tickets.CategorizeTicket)
	tickets.Post("/:id/analyze", cfg.Tickets.AnalyzeTicket)

	agents := api.Group("/agents")
	agents.Get("", cfg.Agents.ListAgents)
	agents.Get("/:name", cfg.Agents.GetAgent)

	kb := api.Group("/kb")
	kb.Post("/articles", cfg.KB.CreateArticle)
	kb.Get("/articles", cfg.KB.ListArticles)
	kb.Get("/articles/:id", cfg.KB.GetArticle)
	kb.Post("/search", cfg.KB.SearchArticles)

	chat := api.Group("/chat")
	chat.Post("/messages", cfg.Chat.PostMessage)
}
