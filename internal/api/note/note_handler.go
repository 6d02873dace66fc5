package note

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rfcosta/notekeep/internal/api"
	"github.com/rfcosta/notekeep/internal/api/auth"
	"github.com/rfcosta/notekeep/internal/types"
)

// CreateNoteRequest represents the create note request body.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.CodeAuth, "Authentication required")
		return
	}

	var req CreateNoteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	note, err := h.service.Create(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, api.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeValidation, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to create note", slog.Any("error", err),
			slog.String("path", r.URL.Path), slog.String("method", r.Method))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to create note")
		return
	}

	api.SuccessResponse(w, r, http.StatusCreated, note)
}

// List serves one page of the caller's notes, newest first. Absent or
// non-numeric page/limit parameters fall back to the defaults.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.CodeAuth, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := h.service.List(r.Context(), userID, page, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list notes", slog.Any("error", err),
			slog.String("path", r.URL.Path), slog.String("method", r.Method))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to list notes")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.CodeAuth, "Authentication required")
		return
	}

	noteID, err := uuid.Parse(chi.URLParam(r, "noteID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, "Note not found")
		return
	}

	note, err := h.service.Get(r.Context(), userID, noteID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, "Note not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to get note", slog.Any("error", err),
			slog.String("path", r.URL.Path), slog.String("method", r.Method))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to get note")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, note)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.CodeAuth, "Authentication required")
		return
	}

	noteID, err := uuid.Parse(chi.URLParam(r, "noteID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, "Note not found")
		return
	}

	var params types.UpdateNoteParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	note, err := h.service.Update(r.Context(), userID, noteID, params)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, "Note not found")
		case errors.Is(err, api.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeValidation, err.Error())
		default:
			h.logger.ErrorContext(r.Context(), "Failed to update note", slog.Any("error", err),
				slog.String("path", r.URL.Path), slog.String("method", r.Method))
			api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to update note")
		}
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, note)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.CodeAuth, "Authentication required")
		return
	}

	noteID, err := uuid.Parse(chi.URLParam(r, "noteID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, "Note not found")
		return
	}

	if err := h.service.Delete(r.Context(), userID, noteID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, "Note not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to delete note", slog.Any("error", err),
			slog.String("path", r.URL.Path), slog.String("method", r.Method))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to delete note")
		return
	}

	api.MessageResponse(w, r, http.StatusOK, "Note deleted successfully")
}
