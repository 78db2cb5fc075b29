package handlers

import (
	"net/http"
	"time"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck answers 503 when the database cannot be reached.
func HealthCheck(c *gin.Context) {
	status, code, database := "ok", http.StatusOK, "up"

	if err := db.Ping(c.Request.Context()); err != nil {
		zap.S().Warnw("health check database ping failed", "error", err)
		status, code, database = "degraded", http.StatusServiceUnavailable, "down"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"message":   "Escuela is running",
		"database":  database,
		"jobs":      scheduler.Jobs(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, "Hello User!!!")
}
