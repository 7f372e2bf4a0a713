package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Rrens/sop-assistant/internal/api/middleware"
	"github.com/Rrens/sop-assistant/internal/api/response"
	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/service"
)

// SopHandler handles SOP endpoints
type SopHandler struct {
	sopService *service.SopService
}

// NewSopHandler creates a new SOP handler
func NewSopHandler(sopService *service.SopService) *SopHandler {
	return &SopHandler{sopService: sopService}
}

func sopFilter(w http.ResponseWriter, r *http.Request, activeOnly bool) (domain.SopFilter, bool) {
	filter := domain.SopFilter{ActiveOnly: activeOnly}
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid categoryId")
			return filter, false
		}
		filter.CategoryID = &id
	}
	return filter, true
}

// Browse lists active SOPs for agents, optionally by category
func (h *SopHandler) Browse(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// List lists every SOP for administrators
func (h *SopHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *SopHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	filter, ok := sopFilter(w, r, activeOnly)
	if !ok {
		return
	}

	sops, err := h.sopService.List(r.Context(), filter)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, sops)
}

// Get returns one SOP
func (h *SopHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "sopID")
	if !ok {
		return
	}

	sop, err := h.sopService.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, sop)
}

// Create adds an SOP authored by the caller
func (h *SopHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var input domain.SopCreate
	if !decode(w, r, &input) {
		return
	}

	sop, err := h.sopService.Create(r.Context(), *caller, input)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, sop)
}

// Update replaces every editable field
func (h *SopHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "sopID")
	if !ok {
		return
	}

	var input domain.SopUpdate
	if !decode(w, r, &input) {
		return
	}

	sop, err := h.sopService.Update(r.Context(), id, input)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, sop)
}

// Patch changes only the supplied fields
func (h *SopHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "sopID")
	if !ok {
		return
	}

	var input domain.SopPatch
	if !decode(w, r, &input) {
		return
	}

	sop, err := h.sopService.Patch(r.Context(), id, input)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, sop)
}

// Delete removes an SOP
func (h *SopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "sopID")
	if !ok {
		return
	}

	if err := h.sopService.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, map[string]string{"message": "sop deleted"})
}
