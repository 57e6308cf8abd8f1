package handlers

import (
	"errors"
	"net/http"

	"agent-settings-api/internal/bulk"
	"agent-settings-api/internal/metrics"
	"agent-settings-api/internal/middleware"
	"agent-settings-api/internal/realtime"
	"agent-settings-api/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler serves the settings endpoints.
type Handler struct {
	roles   *repository.RoleRepository
	agents  *repository.AgentRepository
	hub     *realtime.Hub
	metrics *metrics.Metrics
	log     *logrus.Logger
}

func NewHandler(roles *repository.RoleRepository, agents *repository.AgentRepository, hub *realtime.Hub, m *metrics.Metrics, log *logrus.Logger) *Handler {
	return &Handler{roles: roles, agents: agents, hub: hub, metrics: m, log: log}
}

// respondError maps repository errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "fields": ve.Fields})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicateName), errors.Is(err, repository.ErrRoleInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrUnknownRole):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bulkStatus is 200 when every item succeeded and 207 otherwise.
func bulkStatus[T any](res bulk.Result[T]) int {
	if res.Success {
		return http.StatusOK
	}
	return http.StatusMultiStatus
}

// reportBulk records metrics and logs the outcome. Partial failures are
// warnings; the batch itself still succeeded as a request.
func reportBulk[T any](h *Handler, c *gin.Context, operation, noun, verb string, res bulk.Result[T]) string {
	h.metrics.RecordBulk(operation, len(res.SuccessfulOperations), len(res.FailedOperations))
	summary := res.Summary(noun, verb)
	entry := h.log.WithFields(logrus.Fields{
		"operation": operation,
		"user_id":   c.GetString(middleware.UserIDKey),
		"succeeded": len(res.SuccessfulOperations),
		"failed":    len(res.FailedOperations),
		"total":     res.TotalProcessed,
	})
	if res.Success {
		entry.Info(summary)
	} else {
		entry.Warn(summary)
	}
	return summary
}
