package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/culinarynotes/culinarynotes/internal/auth"
	"github.com/culinarynotes/culinarynotes/internal/handler/dto"
	"github.com/culinarynotes/culinarynotes/internal/service"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	responder
	svc *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		responder: responder{logger: logger},
		svc:       svc,
	}
}

// Routes mounts the user endpoints.
func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/search", h.Search)
	r.Get("/by-username", h.GetByUsername)
	r.Get("/by-email", h.GetByEmail)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetByUsername handles GET /api/users/by-username?username=.
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username, ok := queryParam(w, r, "username")
	if !ok {
		return
	}

	user, found, err := h.svc.GetByUsername(r.Context(), username)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found with username: '"+username+"'")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetByEmail handles GET /api/users/by-email?email=.
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email, ok := queryParam(w, r, "email")
	if !ok {
		return
	}

	user, found, err := h.svc.GetByEmail(r.Context(), email)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found with email: '"+email+"'")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Search handles GET /api/users/search?username=.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Search(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Create handles POST /api/users. The password is stored as an Argon2id hash.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	user, err := h.svc.Create(r.Context(), req.ToModel(hash))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	current, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	user, err := h.svc.Update(r.Context(), id, req.Apply(current))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("user_updated", "user_id", id)
	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}
