package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rfcosta/notekeep/internal/api"
)

// Status is the health check payload.
type Status struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	DBStatus string `json:"dbStatus"`
}

type Handler struct {
	logger    *slog.Logger
	db        api.DBPool
	startedAt time.Time
}

func NewHandler(db api.DBPool, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		db:        db,
		startedAt: time.Now(),
	}
}

// Check reports process uptime and whether the database answers a ping.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "up"
	if err := h.db.Ping(ctx); err != nil {
		h.logger.WarnContext(r.Context(), "Health check database ping failed", slog.Any("error", err))
		status = "degraded"
		dbStatus = "down"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	api.WriteJSONResponse(w, r, code, Status{
		Status:   status,
		Uptime:   time.Since(h.startedAt).Round(time.Second).String(),
		DBStatus: dbStatus,
	})
}
