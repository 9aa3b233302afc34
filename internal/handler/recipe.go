package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/culinarynotes/culinarynotes/internal/handler/dto"
	"github.com/culinarynotes/culinarynotes/internal/service"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	responder
	svc *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		responder: responder{logger: logger},
		svc:       svc,
	}
}

// Routes mounts the recipe endpoints.
func (h *RecipeHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/search", h.Search)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/recipes.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

// Get handles GET /api/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	recipe, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// Search handles GET /api/recipes/search?title=.
func (h *RecipeHandler) Search(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.Search(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

// Create handles POST /api/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecipeRequest
	if !h.decode(w, r, &req) {
		return
	}

	recipe, err := h.svc.Create(r.Context(), req.ToModel())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("recipe_created", "recipe_id", recipe.ID)
	writeJSON(w, http.StatusCreated, recipe)
}

// Update handles PUT /api/recipes/{id}.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRecipeRequest
	if !h.decode(w, r, &req) {
		return
	}

	current, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	recipe, err := h.svc.Update(r.Context(), id, req.Apply(current))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("recipe_updated", "recipe_id", id)
	writeJSON(w, http.StatusOK, recipe)
}

// Delete handles DELETE /api/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("recipe_deleted", "recipe_id", id)
	w.WriteHeader(http.StatusNoContent)
}
