package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/basketball-stat-tracker/internal/service"
	"github.com/maxviazov/basketball-stat-tracker/pkg/response"
)

type PlayerHandler struct {
	svc   service.PlayerService
	query service.QueryService
}

func NewPlayerHandler(svc service.PlayerService, query service.QueryService) *PlayerHandler {
	return &PlayerHandler{svc: svc, query: query}
}

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/profile", h.profile)
		g.GET("/summaries", h.summaries)
	}
}

// team_id is optional; omitted or null means unaffiliated.
type createPlayerRequest struct {
	Name   string `json:"name"`
	TeamID *int64 `json:"team_id"`
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	player, err := h.svc.CreatePlayer(c.Request.Context(), req.Name, req.TeamID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, player)
}

func (h *PlayerHandler) list(c *gin.Context) {
	players, err := h.query.GetPlayers(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}

// profile matches ?name= exactly, without trimming.
func (h *PlayerHandler) profile(c *gin.Context) {
	profile, err := h.query.GetPlayerProfile(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, newPlayerProfileResponse(profile))
}

func (h *PlayerHandler) summaries(c *gin.Context) {
	out, err := h.query.GetPlayerSummaries(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}
