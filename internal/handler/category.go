package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/culinarynotes/culinarynotes/internal/handler/dto"
	"github.com/culinarynotes/culinarynotes/internal/service"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	responder
	svc *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		responder: responder{logger: logger},
		svc:       svc,
	}
}

// Routes mounts the category endpoints.
func (h *CategoryHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/search", h.Search)
	r.Get("/by-name", h.GetByName)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Get handles GET /api/categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// GetByName handles GET /api/categories/by-name?name=.
func (h *CategoryHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name, ok := queryParam(w, r, "name")
	if !ok {
		return
	}

	category, found, err := h.svc.GetByName(r.Context(), name)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "category not found with name: '"+name+"'")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Search handles GET /api/categories/search?name=.
func (h *CategoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	category, err := h.svc.Create(r.Context(), req.ToModel())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("category_created", "category_id", category.ID)
	writeJSON(w, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	current, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	category, err := h.svc.Update(r.Context(), id, req.Apply(current))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("category_updated", "category_id", id)
	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("category_deleted", "category_id", id)
	w.WriteHeader(http.StatusNoContent)
}
