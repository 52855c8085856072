package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ehomehq/ehome/internal/monitoring"
)

// HealthProbe serves the report produced by evaluate. Only a down report
// answers 503.
func HealthProbe(evaluate func(context.Context) monitoring.HealthReport) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := evaluate(c.Request.Context())

		status := http.StatusOK
		if !report.Success {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"success":    report.Success,
			"status":     report.Status,
			"checks":     report.Checks,
			"checked_at": time.Now().UTC(),
		})
	}
}

// StaticHealth answers every probe with up. It is mounted when health
// checks are disabled.
func StaticHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": monitoring.StatusUp})
}
