package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/rfcosta/notekeep/internal/api/auth"
	"github.com/rfcosta/notekeep/internal/api/health"
	"github.com/rfcosta/notekeep/internal/api/note"
	"github.com/rfcosta/notekeep/internal/api/profile"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            *auth.AuthHandlerImpl
	NoteHandler            *note.Handler
	ProfileHandler         *profile.Handler
	HealthHandler          *health.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AuthRateLimit          int
	AuthRateWindow         time.Duration
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", cfg.HealthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {

		// Public auth routes, rate limited per IP against brute force.
		r.Group(func(r chi.Router) {
			if cfg.AuthRateLimit > 0 {
				r.Use(httprate.LimitByIP(cfg.AuthRateLimit, cfg.AuthRateWindow))
			}
			r.Get("/auth/captcha", cfg.AuthHandler.Captcha)
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		})

		// Protected routes require a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/user/profile", cfg.ProfileHandler.Get)
			r.Put("/user/profile", cfg.ProfileHandler.Update)

			r.Route("/notes", func(r chi.Router) {
				r.Post("/", cfg.NoteHandler.Create)
				r.Get("/", cfg.NoteHandler.List)
				r.Get("/{noteID}", cfg.NoteHandler.Get)
				r.Put("/{noteID}", cfg.NoteHandler.Update)
				r.Delete("/{noteID}", cfg.NoteHandler.Delete)
			})
		})
	})

	return r
}
