// Package handler exposes the HTTP surface: webhook ingestion, engagement
// tracking, analytics, listings, tags, status and the live websocket feed.
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dealshub/backend/internal/analytics"
	"dealshub/backend/internal/classifier"
	"dealshub/backend/internal/engagement"
	"dealshub/backend/internal/livefeed"
	"dealshub/backend/internal/models"
	"dealshub/backend/internal/parser"
	"dealshub/backend/internal/storage"
)

// FileResolver resolves a Telegram photo file ID into a direct URL.
type FileResolver interface {
	FileURL(fileID string) string
}

// Announcer cross-posts an ingested deal; optional.
type Announcer interface {
	Announce(msg models.Message)
}

// Handler holds every dependency the HTTP endpoints need. Optional fields
// (Files, Tagger, Announcer, Hub) may be nil and are skipped.
type Handler struct {
	Storage   storage.Storage
	Parser    *parser.Parser
	Tracker   *engagement.Tracker
	Analytics *analytics.Aggregator
	Hub       *livefeed.Hub
	Files     FileResolver
	Tagger    classifier.Tagger
	Announcer Announcer

	WebhookSecret string
	JWTSecret     string
	Logger        *zap.Logger
}

func NewHandler(s storage.Storage, p *parser.Parser, logger *zap.Logger) *Handler {
	return &Handler{
		Storage:   s,
		Parser:    p,
		Tracker:   engagement.NewTracker(s),
		Analytics: analytics.NewAggregator(s),
		Logger:    logger,
	}
}

// Register wires all routes onto the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.Use(corsMiddleware())

	r.Any("/webhook/telegram", h.IngestWebhook)

	api := r.Group("/api")
	{
		api.POST("/track", h.TrackEngagement)
		api.GET("/analytics", h.QueryAnalytics)
		api.GET("/deals", h.ListDeals)
		api.GET("/status", h.Status)
		api.POST("/messages/:id/tags", h.AddTag)
		api.DELETE("/messages/:id/tags/:tag", h.RemoveTag)
	}

	if h.Hub != nil {
		r.GET("/ws/deals", h.ServeDealsFeed)
	}
}

// corsMiddleware answers preflights and stamps responses for the /api
// routes; the engagement endpoint is called cross-origin from the deal
// pages. The webhook is server-to-server and stays out of CORS entirely,
// so its own method check answers OPTIONS with 405.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
