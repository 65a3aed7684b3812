package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/auradesk/service-desk/internal/repository"
)

// AgentsHandler exposes the read-only agent roster.
type AgentsHandler struct {
	directory repository.AgentDirectory
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(directory repository.AgentDirectory) *AgentsHandler {
	return &AgentsHandler{directory: directory}
}

// ListAgents GET /api/agents.
func (h *AgentsHandler) ListAgents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.directory.ListAgents()})
}

// GetAgent GET /api/agents/:name.
func (h *AgentsHandler) GetAgent(c *fiber.Ctx) error {
	agent, err := h.directory.GetAgent(c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agent})
}
