package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/auradesk/service-desk/internal/api/dto"
	"github.com/auradesk/service-desk/internal/service"
	apperrors "github.com/auradesk/service-desk/pkg/util"
)

// ChatHandler exposes the self-service chat assistant.
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{service: chatService}
}

// PostMessage POST /api/chat/messages.
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	reply, err := h.service.Respond(c.UserContext(), req.ConversationID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ChatMessageResponse{
		ConversationID: req.ConversationID,
		Response:       reply.Response,
		Escalate:       reply.Escalate,
	}})
}
