package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ehomehq/ehome/internal/app"
	"github.com/ehomehq/ehome/internal/handlers"
	"github.com/ehomehq/ehome/internal/monitoring"
)

const (
	healthPath    = "/health"
	readinessPath = "/health/ready"
)

func registerHealthRoutes(r *gin.Engine, cfg *app.Config, mon *monitoring.Module) {
	manager := mon.Health()
	if !cfg.Monitoring.Health.Enabled || manager == nil {
		r.GET(healthPath, handlers.StaticHealth)
		r.GET(readinessPath, handlers.StaticHealth)
		return
	}

	r.GET(healthPath, handlers.HealthProbe(manager.EvaluateLiveness))
	r.GET(readinessPath, handlers.HealthProbe(manager.EvaluateReadiness))
}
