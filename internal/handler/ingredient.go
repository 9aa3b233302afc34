package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/culinarynotes/culinarynotes/internal/handler/dto"
	"github.com/culinarynotes/culinarynotes/internal/service"
)

// IngredientHandler handles HTTP requests for ingredients.
type IngredientHandler struct {
	responder
	svc *service.IngredientService
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(svc *service.IngredientService, logger *slog.Logger) *IngredientHandler {
	return &IngredientHandler{
		responder: responder{logger: logger},
		svc:       svc,
	}
}

// Routes mounts the ingredient endpoints.
func (h *IngredientHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/search", h.Search)
	r.Get("/by-key", h.GetByNameAndUnit)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/ingredients.
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.svc.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

// Get handles GET /api/ingredients/{id}.
func (h *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ingredient, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

// GetByNameAndUnit handles GET /api/ingredients/by-key?name=&unit=.
func (h *IngredientHandler) GetByNameAndUnit(w http.ResponseWriter, r *http.Request) {
	name, ok := queryParam(w, r, "name")
	if !ok {
		return
	}
	unit, ok := queryParam(w, r, "unit")
	if !ok {
		return
	}

	ingredient, found, err := h.svc.GetByNameAndUnit(r.Context(), name, unit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND",
			"ingredient not found with name and unit: '"+name+" ("+unit+")'")
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

// Search handles GET /api/ingredients/search?name=.
func (h *IngredientHandler) Search(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.svc.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

// Create handles POST /api/ingredients.
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateIngredientRequest
	if !h.decode(w, r, &req) {
		return
	}

	ingredient, err := h.svc.Create(r.Context(), req.ToModel())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("ingredient_created", "ingredient_id", ingredient.ID)
	writeJSON(w, http.StatusCreated, ingredient)
}

// Update handles PUT /api/ingredients/{id}.
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateIngredientRequest
	if !h.decode(w, r, &req) {
		return
	}

	current, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	ingredient, err := h.svc.Update(r.Context(), id, req.Apply(current))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("ingredient_updated", "ingredient_id", id)
	writeJSON(w, http.StatusOK, ingredient)
}

// Delete handles DELETE /api/ingredients/{id}.
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("ingredient_deleted", "ingredient_id", id)
	w.WriteHeader(http.StatusNoContent)
}
