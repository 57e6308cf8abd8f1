package handlers

import (
	"net/http"

	"agent-settings-api/internal/middleware"
	"agent-settings-api/internal/models"
	"agent-settings-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// ImportRolesRequest is the body of POST /api/roles/import.
type ImportRolesRequest struct {
	Roles []models.RoleInput `json:"roles" binding:"required"`
}

// BulkDeleteRequest is the body of POST /api/roles/bulk-delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// ListRoles handles GET /api/roles
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roles": roles,
		"count": len(roles),
	})
}

// GetRole handles GET /api/roles/:id
func (h *Handler) GetRole(c *gin.Context) {
	role, err := h.roles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// CreateRole handles POST /api/roles
func (h *Handler) CreateRole(c *gin.Context) {
	var req models.RoleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := h.roles.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.hub.Publish(realtime.Event{Type: "role_created", UserID: c.GetString(middleware.UserIDKey), IDs: []string{role.ID}})
	c.JSON(http.StatusCreated, role)
}

// UpdateRole handles PUT /api/roles/:id
func (h *Handler) UpdateRole(c *gin.Context) {
	var req models.RoleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := h.roles.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.hub.Publish(realtime.Event{Type: "role_updated", UserID: c.GetString(middleware.UserIDKey), IDs: []string{role.ID}})
	c.JSON(http.StatusOK, role)
}

// DeleteRole handles DELETE /api/roles/:id
func (h *Handler) DeleteRole(c *gin.Context) {
	id := c.Param("id")
	if err := h.roles.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	h.hub.Publish(realtime.Event{Type: "role_deleted", UserID: c.GetString(middleware.UserIDKey), IDs: []string{id}})
	c.JSON(http.StatusOK, gin.H{
		"message": "Role deleted successfully",
		"id":      id,
	})
}

// ImportRoles handles POST /api/roles/import. Each role is created
// independently; the response lists what succeeded and what failed.
func (h *Handler) ImportRoles(c *gin.Context) {
	var req ImportRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Roles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must contain a non-empty roles array"})
		return
	}

	res := h.roles.ImportRoles(c.Request.Context(), req.Roles)
	summary := reportBulk(h, c, "roles_import", "roles", "imported", res)

	if len(res.SuccessfulOperations) > 0 {
		ids := make([]string, 0, len(res.SuccessfulOperations))
		for _, r := range res.SuccessfulOperations {
			ids = append(ids, r.ID)
		}
		h.hub.Publish(realtime.Event{Type: "roles_imported", UserID: c.GetString(middleware.UserIDKey), IDs: ids, Summary: summary})
	}
	c.JSON(bulkStatus(res), res)
}

// BulkDeleteRoles handles POST /api/roles/bulk-delete
func (h *Handler) BulkDeleteRoles(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must contain a non-empty ids array"})
		return
	}

	res := h.roles.DeleteMany(c.Request.Context(), req.IDs)
	summary := reportBulk(h, c, "roles_delete", "roles", "deleted", res)
	if len(res.SuccessfulOperations) > 0 {
		h.hub.Publish(realtime.Event{Type: "role_deleted", UserID: c.GetString(middleware.UserIDKey), IDs: res.SuccessfulOperations, Summary: summary})
	}
	c.JSON(bulkStatus(res), res)
}
