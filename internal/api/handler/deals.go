package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dealshub/backend/internal/storage"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ListDeals returns the public deal listing, newest first unless
// sort=views is requested.
func (h *Handler) ListDeals(c *gin.Context) {
	q := storage.ListQuery{
		Store:    c.Query("store"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Limit:    defaultListLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "limit must be a positive integer"})
			return
		}
		q.Limit = limit
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "offset must be a non-negative integer"})
			return
		}
		q.Offset = offset
	}

	deals, err := h.Storage.ListMessages(q)
	if err != nil {
		h.Logger.Error("Deal listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(deals), "deals": deals})
}
