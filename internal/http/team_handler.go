package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type teamBody struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) createTeam(c *gin.Context) {
	var body teamBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	team, err := h.teams.CreateTeam(c.Request.Context(), body.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTeamResponse(*team))
}

func (h *Handler) listTeams(c *gin.Context) {
	teams, err := h.teams.ListTeams(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]teamResponse, 0, len(teams))
	for _, team := range teams {
		out = append(out, toTeamResponse(team))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "teams": out})
}

func (h *Handler) getTeam(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	team, err := h.teams.GetTeam(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamResponse(*team))
}

func (h *Handler) renameTeam(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body teamBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	team, err := h.teams.RenameTeam(c.Request.Context(), id, body.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamResponse(*team))
}

func (h *Handler) deleteTeam(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.teams.DeleteTeam(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "team deleted"})
}

type technicianBody struct {
	TechnicianID string `json:"technician_id" binding:"required"`
}

func (h *Handler) addTechnician(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body technicianBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	technicianID, err := uuid.Parse(body.TechnicianID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician_id"})
		return
	}
	team, err := h.teams.AddTechnician(c.Request.Context(), id, technicianID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamResponse(*team))
}

func (h *Handler) removeTechnician(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	technicianID, err := uuid.Parse(c.Param("technicianId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician id"})
		return
	}
	team, err := h.teams.RemoveTechnician(c.Request.Context(), id, technicianID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamResponse(*team))
}
