package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/basketball-stat-tracker/internal/service"
	"github.com/maxviazov/basketball-stat-tracker/pkg/response"
)

type TeamHandler struct {
	svc   service.TeamService
	query service.QueryService
}

func NewTeamHandler(svc service.TeamService, query service.QueryService) *TeamHandler {
	return &TeamHandler{svc: svc, query: query}
}

func (h *TeamHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/teams")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/aggregates", h.aggregates)
	}
}

type createTeamRequest struct {
	Name string `json:"name"`
}

func (h *TeamHandler) create(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // parser details stay internal
		return
	}
	team, err := h.svc.CreateTeam(c.Request.Context(), req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, team)
}

func (h *TeamHandler) list(c *gin.Context) {
	teams, err := h.query.GetTeams(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, teams)
}

func (h *TeamHandler) aggregates(c *gin.Context) {
	out, err := h.query.GetTeamAggregates(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}
