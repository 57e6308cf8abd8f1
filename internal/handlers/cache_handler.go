package handlers

import (
	"net/http"

	"agent-settings-api/internal/cache"

	"github.com/gin-gonic/gin"
)

func (h *Handler) caches() []cache.Inspector {
	return append(h.roles.Caches(), h.agents.Caches()...)
}

// CacheStats handles GET /api/cache/stats
func (h *Handler) CacheStats(c *gin.Context) {
	all := h.caches()
	stats := make([]cache.Stats, 0, len(all))
	for _, ci := range all {
		stats = append(stats, ci.Stats())
	}
	c.JSON(http.StatusOK, gin.H{"caches": stats})
}

// ClearCaches handles DELETE /api/cache
func (h *Handler) ClearCaches(c *gin.Context) {
	all := h.caches()
	for _, ci := range all {
		ci.Clear()
	}
	h.log.WithField("caches", len(all)).Info("caches cleared")
	c.JSON(http.StatusOK, gin.H{"message": "Caches cleared", "cleared": len(all)})
}
