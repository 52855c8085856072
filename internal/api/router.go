package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ehomehq/ehome/internal/app"
	"github.com/ehomehq/ehome/internal/auth"
	"github.com/ehomehq/ehome/internal/handlers"
	"github.com/ehomehq/ehome/internal/middleware"
	"github.com/ehomehq/ehome/internal/monitoring"
	"github.com/ehomehq/ehome/internal/services"
)

// apiPrefix is the version prefix shared by every listing route.
const apiPrefix = "/api/v1.0"

// Dependencies bundles the services the router mounts.
type Dependencies struct {
	Config     *app.Config
	Sessions   *auth.Sessions
	Listing    *services.ListingService
	Houses     *services.HouseService
	Monitoring *monitoring.Module
}

// NewRouter builds the Gin engine, wires middleware and registers the listing routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, errors.New("config must be provided")
	}
	if deps.Sessions == nil {
		return nil, errors.New("session verifier must be provided")
	}
	if deps.Listing == nil {
		return nil, errors.New("listing service must be provided")
	}
	if deps.Houses == nil {
		return nil, errors.New("house service must be provided")
	}

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	metricsPath := metricsEndpoint(deps.Config)
	r.Use(middleware.Logger(healthPath, readinessPath, metricsPath))
	r.Use(middleware.Metrics(metricsPath))

	registerHealthRoutes(r, deps.Config, deps.Monitoring)
	registerMetricsRoute(r, deps.Config, deps.Monitoring)

	api := r.Group(apiPrefix)
	registerListingRoutes(api, handlers.NewListingHandler(deps.Listing), deps.Sessions)
	registerHouseRoutes(api, handlers.NewHouseHandler(deps.Houses), deps.Sessions)

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}

func registerListingRoutes(api *gin.RouterGroup, h *handlers.ListingHandler, sessions *auth.Sessions) {
	api.GET("/areas", h.Areas)
	api.GET("/houses/index", h.HomeFeed)
	api.GET("/houses/:id", middleware.OptionalAuth(sessions), h.Detail)
	api.GET("/houses", h.Search)
}

func registerHouseRoutes(api *gin.RouterGroup, h *handlers.HouseHandler, sessions *auth.Sessions) {
	requireAuth := middleware.Auth(sessions)

	api.POST("/houses", requireAuth, h.Publish)
	api.POST("/houses/:id/images", requireAuth, h.AddImage)
	api.GET("/user/houses", requireAuth, h.OwnerHouses)
}

func registerMetricsRoute(r *gin.Engine, cfg *app.Config, mon *monitoring.Module) {
	if !cfg.Monitoring.Prometheus.Enabled || mon == nil {
		return
	}
	r.GET(metricsEndpoint(cfg), gin.WrapH(mon.Handler()))
}

func metricsEndpoint(cfg *app.Config) string {
	if endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint); endpoint != "" {
		return endpoint
	}
	return "/metrics"
}
