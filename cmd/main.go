package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"dealshub/backend/internal/affiliate"
	"dealshub/backend/internal/api/handler"
	"dealshub/backend/internal/classifier"
	"dealshub/backend/internal/config"
	"dealshub/backend/internal/livefeed"
	"dealshub/backend/internal/monitor"
	"dealshub/backend/internal/notify"
	"dealshub/backend/internal/parser"
	"dealshub/backend/internal/storage"
	"dealshub/backend/internal/telegram"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// 1. Storage: Postgres behind the Storage interface, Redis for the
	// listing cache and the deal event channel.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		logger.Warn("Redis unreachable; listings will be served uncached", zap.Error(err))
		rdb = nil
	}

	store, err := storage.NewService(cfg.Database.DSN(), rdb, logger)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}

	// 2. Ingestion pipeline: affiliate link rewriting feeding the parser.
	linker := affiliate.NewLinker(cfg.Affiliate.PartnerTag)
	p := parser.New(linker)

	var tgClient *telegram.Client
	if cfg.Telegram.BotToken != "" {
		tgClient, err = telegram.NewClient(cfg.Telegram.BotToken, logger)
		if err != nil {
			logger.Warn("Telegram client unavailable; photo URLs will be skipped", zap.Error(err))
			tgClient = nil
		}
	}

	// 3. Live feed hub, fed by the Redis deal channel.
	hub := livefeed.NewHub(store, logger)
	go hub.Run()

	// 4. HTTP surface.
	h := handler.NewHandler(store, p, logger)
	h.WebhookSecret = cfg.Telegram.WebhookSecret
	h.JWTSecret = cfg.Admin.JWTSecret
	h.Hub = hub
	if tgClient != nil {
		h.Files = tgClient
	}
	if cfg.OpenAI.APIKey != "" {
		h.Tagger = classifier.NewGPTTagger(cfg.OpenAI, logger)
	} else {
		h.Tagger = classifier.NewKeywordTagger(cfg.OpenAI.MaxTags)
	}
	if cfg.Discord.BotToken != "" && cfg.Discord.ChannelID != "" {
		announcer, err := notify.NewDiscordAnnouncer(cfg.Discord.BotToken, cfg.Discord.ChannelID, logger)
		if err != nil {
			logger.Warn("Discord announcer unavailable", zap.Error(err))
		} else {
			h.Announcer = announcer
			defer announcer.Close()
		}
	}

	// 5. Health monitor on a cron schedule.
	if cfg.Monitor.Schedule != "" {
		mon := monitor.New(store, nil, nil, cfg.Monitor.IngestURL, logger)
		if tgClient != nil {
			mon.Bot = tgClient
		}
		if mailer := monitor.NewSMTPMailer(cfg.Monitor.SMTP); mailer != nil {
			mon.Mailer = mailer
		}

		c := cron.New()
		if _, err := c.AddFunc(cfg.Monitor.Schedule, func() { mon.Run() }); err != nil {
			logger.Fatal("Invalid monitor schedule", zap.String("schedule", cfg.Monitor.Schedule), zap.Error(err))
		}
		c.Start()
		defer c.Stop()
	}

	r := gin.Default()
	h.Register(r)

	server := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	logger.Info("Starting DealsHub backend", zap.String("addr", cfg.Server.Addr))
	logger.Fatal("Server stopped", zap.Error(server.ListenAndServe()))
}
