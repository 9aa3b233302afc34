package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/culinarynotes/culinarynotes/internal/handler/dto"
	"github.com/culinarynotes/culinarynotes/internal/service"
)

// uploadField is the multipart form field that carries the file.
const uploadField = "file"

// FileHandler handles uploads and downloads of stored files.
type FileHandler struct {
	responder
	storage       *service.FileStorage
	maxUploadSize int64
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(storage *service.FileStorage, maxUploadSize int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		responder:     responder{logger: logger},
		storage:       storage,
		maxUploadSize: maxUploadSize,
	}
}

// Routes mounts the file endpoints.
func (h *FileHandler) Routes(r chi.Router) {
	r.Post("/", h.Upload)
	r.Get("/{name}", h.Download)
	r.Delete("/{name}", h.Delete)
}

// Upload handles POST /api/files with a multipart "file" field.
// The part is streamed to storage without buffering the whole body.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Request must be multipart/form-data")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
			return
		}
		if err != nil {
			h.uploadError(w, r, err)
			return
		}

		if part.FormName() != uploadField || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		name, err := h.storage.Store(r.Context(), part, part.FileName())
		_ = part.Close()
		if err != nil {
			h.uploadError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, dto.FileResponse{FileName: name})
		return
	}
}

func (h *FileHandler) uploadError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "File exceeds the upload limit")
	case errors.Is(err, service.ErrStorageIO):
		h.serviceError(w, r, err)
	default:
		writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Malformed multipart body")
	}
}

// Download handles GET /api/files/{name}.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	stored, err := h.storage.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	f, err := stored.Open()
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": stored.Name}))
	http.ServeContent(w, r, stored.Name, stored.ModTime, f)
}

// Delete handles DELETE /api/files/{name}.
// It answers 204 when a file was removed and 404 otherwise.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !h.storage.Delete(r.Context(), name) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "file not found with name: '"+name+"'")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
