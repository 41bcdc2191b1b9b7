package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dealshub/backend/internal/analytics"
)

// QueryAnalytics serves the engagement report. Validation failures come
// back as the full error list with HTTP 400; nothing executes partially.
func (h *Handler) QueryAnalytics(c *gin.Context) {
	params := analytics.Params{
		Timeframe: c.Query("timeframe"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Store:     c.Query("storeFilter"),
		Category:  c.Query("categoryFilter"),
		Tag:       c.Query("tagFilter"),
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"limit must be an integer between 1 and 100"}})
			return
		}
		params.Limit = limit
	}

	report, validationErrs, err := h.Analytics.Run(params, time.Now().UTC())
	if len(validationErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrs})
		return
	}
	if err != nil {
		h.Logger.Error("Analytics query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
