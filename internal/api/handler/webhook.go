package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dealshub/backend/internal/models"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// IngestWebhook is the single-shot ingestion pipeline:
// verify secret -> parse update -> parse message -> resolve photo -> insert.
// Failures after the auth gate are reported in-band with HTTP 200 so
// Telegram does not re-deliver the update in a retry storm.
func (h *Handler) IngestWebhook(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "method not allowed"})
		return
	}

	if h.WebhookSecret != "" {
		if c.GetHeader(secretHeader) != h.WebhookSecret {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid webhook secret"})
			return
		}
	} else {
		h.Logger.Warn("No webhook secret configured; accepting unverified update")
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.ingestFailed(c, "", "invalid JSON body: "+err.Error())
		return
	}

	msg := update.ChannelPost
	if msg == nil {
		msg = update.Message
	}
	if msg == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "update contains no channel_post or message"})
		return
	}

	runID := uuid.NewString()

	res, err := h.Parser.ParseMessage(msg)
	if err != nil {
		h.ingestFailed(c, runID, err.Error())
		return
	}

	created, err := h.Storage.InsertMessage(&res.Message)
	if err != nil {
		h.ingestFailed(c, runID, err.Error())
		return
	}

	if created {
		if err := h.Storage.PublishDeal(res.Message); err != nil {
			h.Logger.Warn("Failed to publish deal event", zap.Error(err))
		}
		if res.PhotoFileID != "" && h.Files != nil {
			// Resolving the photo needs a Bot API round trip; keep it off
			// the webhook response path and backfill the row.
			go h.resolvePhoto(res.Message.MessageID, res.PhotoFileID)
		}
		if h.Tagger != nil {
			go h.suggestTags(res.Message)
		}
		if h.Announcer != nil {
			go h.Announcer.Announce(res.Message)
		}
	}

	h.saveRun(&models.BotRun{RunID: runID, Found: 1, Processed: 1, SuccessRate: 100})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"id":        res.Message.MessageID,
		"duplicate": !created,
	})
}

func (h *Handler) resolvePhoto(messageID int64, fileID string) {
	url := h.Files.FileURL(fileID)
	if url == "" {
		return
	}
	if err := h.Storage.UpdatePhotoURL(messageID, url); err != nil {
		h.Logger.Warn("Failed to backfill photo URL",
			zap.Int64("message_id", messageID), zap.Error(err))
	}
}

// suggestTags runs the optional tagger off the request path; tag failures
// only ever cost us tags.
func (h *Handler) suggestTags(msg models.Message) {
	for _, tag := range h.Tagger.SuggestTags(msg.Text) {
		if err := h.Storage.UpsertTag(msg.MessageID, tag); err != nil {
			h.Logger.Warn("Failed to store suggested tag",
				zap.Int64("message_id", msg.MessageID), zap.String("tag", tag), zap.Error(err))
		}
	}
}

func (h *Handler) ingestFailed(c *gin.Context, runID, errMsg string) {
	h.Logger.Error("Webhook ingestion failed", zap.String("error", errMsg))
	if runID != "" {
		h.saveRun(&models.BotRun{RunID: runID, Found: 1, Processed: 0, SuccessRate: 0, Error: errMsg})
	}
	c.JSON(http.StatusOK, gin.H{"success": false, "error": errMsg})
}

func (h *Handler) saveRun(run *models.BotRun) {
	if err := h.Storage.SaveBotRun(run); err != nil {
		h.Logger.Warn("Failed to save bot run snapshot", zap.Error(err))
	}
}
