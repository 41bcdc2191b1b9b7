package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dealshub/backend/internal/engagement"
	"dealshub/backend/internal/storage"
)

type trackRequest struct {
	MessageID int64  `json:"messageId"`
	Action    string `json:"action"`
}

// TrackEngagement records one view/click/save/share event.
func (h *Handler) TrackEngagement(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}

	res, err := h.Tracker.Track(req.MessageID, req.Action)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "result": res})
	case errors.Is(err, engagement.ErrInvalidParams), errors.Is(err, engagement.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, storage.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		h.Logger.Error("Engagement tracking failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
