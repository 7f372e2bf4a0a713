package handler

import (
	"net/http"
	"strconv"

	"github.com/Rrens/sop-assistant/internal/api/middleware"
	"github.com/Rrens/sop-assistant/internal/api/response"
	"github.com/Rrens/sop-assistant/internal/service"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// SessionHandler serves chat history for the owner and the admin overview
type SessionHandler struct {
	chatService *service.ChatService
}

func NewSessionHandler(chatService *service.ChatService) *SessionHandler {
	return &SessionHandler{chatService: chatService}
}

// List returns the caller's sessions with their messages. Every session is
// returned unless a limit is given.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	limit, offset := pagination(r, 0)
	sessions, err := h.chatService.ListSessions(r.Context(), userID, limit, offset)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, sessions)
}

// Get returns one of the caller's sessions
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	sessionID, ok := urlUUID(w, r, "sessionID")
	if !ok {
		return
	}

	session, err := h.chatService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, session)
}

// Delete removes one of the caller's sessions with its messages. The body is
// {success: true} on success.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	sessionID, ok := urlUUID(w, r, "sessionID")
	if !ok {
		return
	}

	if err := h.chatService.DeleteSession(r.Context(), userID, sessionID); err != nil {
		fail(w, r, err)
		return
	}

	response.Plain(w, http.StatusOK, map[string]bool{"success": true})
}

// ListAll returns the administrator overview of every user's sessions
func (h *SessionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, defaultPageSize)
	summaries, err := h.chatService.ListAllSessions(r.Context(), limit, offset)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, summaries)
}

// pagination reads limit and offset query parameters, capping limit at maxPageSize
func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = min(v, maxPageSize)
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
