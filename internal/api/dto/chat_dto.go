package dto

// ChatMessageRequest payload.
type ChatMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// ChatMessageResponse carries the assistant reply.
type ChatMessageResponse struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
	Escalate       bool   `json:"escalate"`
}
