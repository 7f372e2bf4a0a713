package handler

import (
	"net/http"

	"github.com/Rrens/sop-assistant/internal/api/response"
	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/service"
)

// CategoryHandler handles SOP category endpoints
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List returns all categories with their SOP counts
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, categories)
}

// Create adds a category
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CategoryInput
	if !decode(w, r, &input) {
		return
	}

	category, err := h.categoryService.Create(r.Context(), input)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, category)
}

// Update replaces a category's name and description
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "categoryID")
	if !ok {
		return
	}

	var input domain.CategoryInput
	if !decode(w, r, &input) {
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, input)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, category)
}

// Delete removes a category no SOP references
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "categoryID")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, map[string]string{"message": "category deleted"})
}
