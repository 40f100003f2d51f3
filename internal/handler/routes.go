package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/config"
)

// APIV1Prefix is the canonical base path for public HTTP API v1.
// Keep a single source of truth to avoid path drift across handlers and tests.
const APIV1Prefix = "/api/v1"

// NewEngine builds a gin engine with recovery, request logging, the per-request
// timeout and, when enabled, per-IP rate limiting.
func NewEngine(cfg config.HTTPConfig, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger), Timeout(cfg.RequestDeadline()))
	if cfg.RateLimit.Enabled {
		r.Use(RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window()))
	}
	return r
}
