package handler

import (
	"net/http"
	"time"

	"agritrace/pkg/logger"

	"github.com/jmoiron/sqlx"
)

type SystemHandler struct {
	db     *sqlx.DB
	logger logger.Logger
}

func NewSystemHandler(db *sqlx.DB, log logger.Logger) *SystemHandler {
	return &SystemHandler{db: db, logger: log}
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.db.PingContext(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, h.logger, code, map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
