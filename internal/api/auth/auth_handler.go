package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rfcosta/notekeep/app/observability/metrics"
	"github.com/rfcosta/notekeep/internal/api"
	"github.com/rfcosta/notekeep/internal/types"
)

// AuthHandlerImpl handles the captcha and register/login endpoints. Captcha
// validation always runs before the credential logic and short-circuits on
// any failure.
type AuthHandlerImpl struct {
	service AuthService
	captcha *CaptchaManager
	logger  *slog.Logger
}

func NewAuthHandlerImpl(service AuthService, captcha *CaptchaManager, logger *slog.Logger) *AuthHandlerImpl {
	return &AuthHandlerImpl{
		service: service,
		captcha: captcha,
		logger:  logger,
	}
}

// Captcha serves a fresh challenge image and binds its answer to the session cookie.
func (h *AuthHandlerImpl) Captcha(w http.ResponseWriter, r *http.Request) {
	if err := h.captcha.Issue(w, r); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to issue captcha", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to generate captcha")
		return
	}
	if m := metrics.Get(); m != nil {
		m.CaptchasIssuedTotal.Add(r.Context(), 1)
	}
}

func (h *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	if err := h.captcha.Validate(r, req.Captcha); err != nil {
		h.captchaErrorResponse(w, r, err)
		return
	}

	profile := types.UpdateProfileParams{FullName: req.FullName, Bio: req.Bio, AvatarURL: req.Avatar}
	token, err := h.service.Register(r.Context(), req.Username, req.Password, profile)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeValidation, err.Error())
		case errors.Is(err, api.ErrConflict):
			api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeAlreadyExists, "Username already exists")
		default:
			h.logger.ErrorContext(r.Context(), "Registration failed", slog.Any("error", err),
				slog.String("path", r.URL.Path), slog.String("method", r.Method))
			api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to register user")
		}
		return
	}

	if m := metrics.Get(); m != nil {
		m.RegistrationsTotal.Add(r.Context(), 1)
	}
	api.SuccessResponse(w, r, http.StatusOK, TokenData{Token: token})
}

func (h *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	if err := h.captcha.Validate(r, req.Captcha); err != nil {
		h.captchaErrorResponse(w, r, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeAuth, "Invalid username or password")
			return
		}
		h.logger.ErrorContext(r.Context(), "Login failed", slog.Any("error", err),
			slog.String("path", r.URL.Path), slog.String("method", r.Method))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Failed to login")
		return
	}

	if m := metrics.Get(); m != nil {
		m.LoginsTotal.Add(r.Context(), 1)
	}
	api.SuccessResponse(w, r, http.StatusOK, TokenData{Token: token})
}

func (h *AuthHandlerImpl) captchaErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrCaptchaSessionMissing),
		errors.Is(err, ErrCaptchaExpired),
		errors.Is(err, ErrCaptchaAnswerMissing),
		errors.Is(err, ErrCaptchaMismatch):
		api.ErrorResponse(w, r, http.StatusBadRequest, api.CodeValidation, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Captcha validation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.CodeServer, "Captcha validation failed")
	}
}
