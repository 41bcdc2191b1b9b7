package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusLabel(score int) string {
	switch {
	case score >= 100:
		return "healthy"
	case score >= 50:
		return "degraded"
	default:
		return "unhealthy"
	}
}

// Status reports the latest health snapshot. The public shape is a short
// summary; ?admin=true with a valid admin token returns the full record.
func (h *Handler) Status(c *gin.Context) {
	hc, err := h.Storage.LatestHealthCheck()
	if err != nil {
		h.Logger.Error("Status lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if hc == nil {
		c.JSON(http.StatusOK, gin.H{"status": "unknown"})
		return
	}

	if c.Query("admin") == "true" {
		if !h.adminAuthorized(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "admin token required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     statusLabel(hc.Score),
			"score":      hc.Score,
			"checked_at": hc.CreatedAt,
			"checks": gin.H{
				"message_flow": hc.MessageFlowOK,
				"recent_count": hc.RecentCount,
				"bot":          hc.BotOK,
				"database":     hc.DatabaseOK,
			},
			"error":    hc.Error,
			"recovery": hc.Recovery,
			"notified": hc.Notified,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     statusLabel(hc.Score),
		"score":      hc.Score,
		"checked_at": hc.CreatedAt,
	})
}
