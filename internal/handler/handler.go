// Package handler exposes the HTTP API on gin.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
	"github.com/maxviazov/basketball-stat-tracker/internal/service"
)

// Services bundles the use cases the routes depend on.
type Services struct {
	Teams   service.TeamService
	Players service.PlayerService
	Stats   service.StatsService
	Query   service.QueryService
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, pinger repository.Pinger, svc Services, logger zerolog.Logger) {
	h := NewHealthHandler(pinger, logger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewTeamHandler(svc.Teams, svc.Query).Register(api)
		NewPlayerHandler(svc.Players, svc.Query).Register(api)
		NewStatsHandler(svc.Stats, svc.Query).Register(api)
	}
}
