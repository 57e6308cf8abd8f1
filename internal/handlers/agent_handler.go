package handlers

import (
	"net/http"

	"agent-settings-api/internal/middleware"
	"agent-settings-api/internal/models"
	"agent-settings-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// ImportAgentsRequest is the body of POST /api/agents/import.
type ImportAgentsRequest struct {
	Agents []models.AgentInput `json:"agents" binding:"required"`
}

// ListAgents handles GET /api/agents
// Optional query param: roleId to list only agents bound to that role.
func (h *Handler) ListAgents(c *gin.Context) {
	agents, err := h.agents.List(c.Request.Context(), c.Query("roleId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"agents": agents,
		"count":  len(agents),
	})
}

// GetAgent handles GET /api/agents/:id
func (h *Handler) GetAgent(c *gin.Context) {
	agent, err := h.agents.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

// CreateAgent handles POST /api/agents
func (h *Handler) CreateAgent(c *gin.Context) {
	var req models.AgentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	agent, err := h.agents.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.hub.Publish(realtime.Event{Type: "agent_created", UserID: c.GetString(middleware.UserIDKey), IDs: []string{agent.ID}})
	c.JSON(http.StatusCreated, agent)
}

// DeleteAgent handles DELETE /api/agents/:id
func (h *Handler) DeleteAgent(c *gin.Context) {
	id := c.Param("id")
	if err := h.agents.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	h.hub.Publish(realtime.Event{Type: "agent_deleted", UserID: c.GetString(middleware.UserIDKey), IDs: []string{id}})
	c.JSON(http.StatusOK, gin.H{
		"message": "Agent deleted successfully",
		"id":      id,
	})
}

// ImportAgents handles POST /api/agents/import
func (h *Handler) ImportAgents(c *gin.Context) {
	var req ImportAgentsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Agents) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must contain a non-empty agents array"})
		return
	}

	res := h.agents.ImportAgents(c.Request.Context(), req.Agents)
	summary := reportBulk(h, c, "agents_import", "agents", "imported", res)
	if len(res.SuccessfulOperations) > 0 {
		ids := make([]string, 0, len(res.SuccessfulOperations))
		for _, a := range res.SuccessfulOperations {
			ids = append(ids, a.ID)
		}
		h.hub.Publish(realtime.Event{Type: "agents_imported", UserID: c.GetString(middleware.UserIDKey), IDs: ids, Summary: summary})
	}
	c.JSON(bulkStatus(res), res)
}
