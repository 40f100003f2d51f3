package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/service"
	"github.com/maxviazov/basketball-stat-tracker/pkg/response"
)

type StatsHandler struct {
	svc   service.StatsService
	query service.QueryService
}

func NewStatsHandler(svc service.StatsService, query service.QueryService) *StatsHandler {
	return &StatsHandler{svc: svc, query: query}
}

func (h *StatsHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/stats")
	{
		g.POST("", h.create)
		g.GET("", h.list)
	}
	r.GET("/leaderboard", h.leaderboard)
}

func (h *StatsHandler) create(c *gin.Context) {
	var req createStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.WriteError(c, err)
		return
	}
	rec, err := h.svc.AddGameStat(c.Request.Context(), in)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, newGameStatResponse(rec))
}

func (h *StatsHandler) list(c *gin.Context) {
	views, err := h.query.GetStats(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, newGameStatViews(views))
}

// leaderboard ranks by ?metric=, points when absent.
func (h *StatsHandler) leaderboard(c *gin.Context) {
	metric := c.DefaultQuery("metric", string(model.MetricPoints))
	board, err := h.query.GetLeaderboard(c.Request.Context(), metric)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, board)
}
