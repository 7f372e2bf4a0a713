package handler

import (
	"net/http"

	"github.com/Rrens/sop-assistant/internal/api/middleware"
	"github.com/Rrens/sop-assistant/internal/api/response"
	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/service"
)

// ChatHandler serves the chat turn endpoint
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat answers one message. The body is {response, sessionId} without the
// usual envelope.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var input domain.ChatRequest
	if !decode(w, r, &input) {
		return
	}

	caller, _ := middleware.GetCaller(r.Context())

	resp, err := h.chatService.HandleTurn(r.Context(), caller, input)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.Plain(w, http.StatusOK, resp)
}
