package router

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfcosta/notekeep/config"
	"github.com/rfcosta/notekeep/internal/api/auth"
	"github.com/rfcosta/notekeep/internal/api/health"
	"github.com/rfcosta/notekeep/internal/api/note"
	"github.com/rfcosta/notekeep/internal/api/profile"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.Default()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	mockPool.MatchExpectationsInOrder(false)
	mockPool.ExpectPing()

	jwtCfg := config.JWTConfig{SecretKey: "test-secret", TokenTTL: time.Hour, Issuer: "test"}
	cfg := &config.Config{JWT: jwtCfg}
	captchaManager := auth.NewCaptchaManager(config.CaptchaConfig{TTL: time.Minute, Width: 150, Height: 50}, logger)

	authRepo := auth.NewPostgresAuthRepo(mockPool, logger)
	authService := auth.NewAuthService(authRepo, cfg, logger)
	authHandler := auth.NewAuthHandlerImpl(authService, captchaManager, logger)

	noteRepo := note.NewPostgresRepository(mockPool, logger)
	noteHandler := note.NewHandler(note.NewService(noteRepo, logger), logger)

	profileRepo := profile.NewPostgresRepository(mockPool, logger)
	profileHandler := profile.NewHandler(profile.NewService(profileRepo, logger), logger)

	return SetupRouter(&Config{
		AuthHandler:            authHandler,
		NoteHandler:            noteHandler,
		ProfileHandler:         profileHandler,
		HealthHandler:          health.NewHandler(mockPool, logger),
		AuthenticateMiddleware: auth.Authenticate(logger, jwtCfg),
		AuthRateLimit:          100,
		AuthRateWindow:         time.Minute,
	})
}

func TestRouterWiring(t *testing.T) {
	router := newTestRouter(t)

	t.Run("HealthIsPublic", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("CaptchaIsPublic", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/captcha", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	})

	t.Run("NotesRequireToken", func(t *testing.T) {
		for _, tc := range []struct {
			method string
			target string
		}{
			{http.MethodGet, "/api/v1/notes"},
			{http.MethodPost, "/api/v1/notes"},
			{http.MethodGet, "/api/v1/user/profile"},
			{http.MethodPut, "/api/v1/user/profile"},
		} {
			r := httptest.NewRequest(tc.method, tc.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s should demand a token", tc.method, tc.target)
		}
	})

	t.Run("UnknownRouteIs404", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthRateLimit(t *testing.T) {
	logger := slog.Default()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	jwtCfg := config.JWTConfig{SecretKey: "test-secret", TokenTTL: time.Hour, Issuer: "test"}
	cfg := &config.Config{JWT: jwtCfg}
	captchaManager := auth.NewCaptchaManager(config.CaptchaConfig{TTL: time.Minute, Width: 150, Height: 50}, logger)
	authRepo := auth.NewPostgresAuthRepo(mockPool, logger)
	authHandler := auth.NewAuthHandlerImpl(auth.NewAuthService(authRepo, cfg, logger), captchaManager, logger)
	noteRepo := note.NewPostgresRepository(mockPool, logger)
	profileRepo := profile.NewPostgresRepository(mockPool, logger)

	router := SetupRouter(&Config{
		AuthHandler:            authHandler,
		NoteHandler:            note.NewHandler(note.NewService(noteRepo, logger), logger),
		ProfileHandler:         profile.NewHandler(profile.NewService(profileRepo, logger), logger),
		HealthHandler:          health.NewHandler(mockPool, logger),
		AuthenticateMiddleware: auth.Authenticate(logger, jwtCfg),
		AuthRateLimit:          2,
		AuthRateWindow:         time.Minute,
	})

	// The third captcha request from the same IP inside the window is refused.
	var lastCode int
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/captcha", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		lastCode = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}
