package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dealshub/backend/internal/storage"
)

type tagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

func (h *Handler) messageIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid message id"})
		return 0, false
	}
	return id, true
}

// AddTag attaches a tag to a deal. Admin only; re-adding an existing tag
// is a no-op.
func (h *Handler) AddTag(c *gin.Context) {
	if !h.adminAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "admin token required"})
		return
	}

	id, ok := h.messageIDParam(c)
	if !ok {
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "tag is required"})
		return
	}
	if storage.NormalizeTag(req.Tag) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "tag is required"})
		return
	}

	if _, err := h.Storage.GetMessageByMessageID(id); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "message not found"})
			return
		}
		h.Logger.Error("Tag message lookup failed", zap.Int64("message_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.Storage.UpsertTag(id, req.Tag); err != nil {
		h.Logger.Error("Tag insert failed", zap.Int64("message_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messageId": id, "tag": storage.NormalizeTag(req.Tag)})
}

// RemoveTag detaches a tag from a deal. Removing an absent tag succeeds.
func (h *Handler) RemoveTag(c *gin.Context) {
	if !h.adminAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "admin token required"})
		return
	}

	id, ok := h.messageIDParam(c)
	if !ok {
		return
	}

	if _, err := h.Storage.GetMessageByMessageID(id); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "message not found"})
			return
		}
		h.Logger.Error("Tag message lookup failed", zap.Int64("message_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.Storage.DeleteTag(id, c.Param("tag")); err != nil {
		h.Logger.Error("Tag delete failed", zap.Int64("message_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messageId": id})
}
