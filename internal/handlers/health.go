package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vitrina-dev/vitrina/db"
)

const healthPingTimeout = 2 * time.Second

func (h *Handler) HealthCheck(ctx *gin.Context) {
	status, database := http.StatusOK, "ok"

	if err := db.Ping(ctx.Request.Context(), h.db, healthPingTimeout); err != nil {
		slog.Error("health check failed", "error", err)
		status, database = http.StatusServiceUnavailable, "unavailable"
	}

	ctx.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"database":  database,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
