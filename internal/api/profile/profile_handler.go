package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rfcosta/notekeep/internal/api"
	"github.com/rfcosta/notekeep/internal/api/auth"
	"github.com/rfcosta/notekeep/internal/types"
)

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

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.CodeAuth, "Authentication required")
		return
	}

	profile, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, "Profile not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to get profile", slog.Any("error", err),
			slog.String("path", r.URL.Path), slog.String("method", r.Method))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to get profile")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, profile)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.CodeAuth, "Authentication required")
		return
	}

	var params types.UpdateProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	profile, err := h.service.Update(r.Context(), userID, params)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, api.CodeNotFound, "Profile not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to update profile", slog.Any("error", err),
			slog.String("path", r.URL.Path), slog.String("method", r.Method))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to update profile")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, profile)
}
