package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"result-service/internal/app/middleware"
	"result-service/internal/result"
)

// HealthHandler returns service readiness information.
type HealthHandler struct {
	startedAt time.Time
	logger    *zap.Logger
}

// NewHealthHandler creates a health handler instance.
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{startedAt: time.Now(), logger: logger}
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	UptimeSec int64  `json:"uptime_seconds"`
}

// Check responds with a basic health payload.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		UptimeSec: int64(time.Since(h.startedAt).Seconds()),
	}
	middleware.WriteResultOf(w, r, result.Value(resp), h.logger)
}
