package handlers

import (
	"advisorchat-backend/internal/config"
	"advisorchat-backend/internal/models"
	"advisorchat-backend/pkg/httputil"
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the root status and health endpoints.
type SystemHandler struct {
	cfg *config.Config
	db  Pinger
}

func NewSystemHandler(cfg *config.Config, db Pinger) *SystemHandler {
	return &SystemHandler{cfg: cfg, db: db}
}

// HandleRoot handles GET /
func (h *SystemHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.StatusResponse{
		App:         h.cfg.AppName,
		Version:     h.cfg.AppVersion,
		Status:      "running",
		Environment: h.cfg.Environment,
	})
}

// HandleHealth handles GET /health. An unreachable database yields 503.
func (h *SystemHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := models.HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		Responder: h.cfg.LLMProvider,
	}
	if h.cfg.LLMProvider == config.LLMProviderOpenAI {
		resp.Responder = h.cfg.LLMBaseURL
	}

	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Health check: database unreachable")
		resp.Status = "unhealthy"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	httputil.RespondJSON(w, status, resp)
}
