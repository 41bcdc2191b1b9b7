package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dealshub/backend/internal/api/handler"
	"dealshub/backend/internal/config"
	"dealshub/backend/internal/monitor"
	"dealshub/backend/internal/storage"
	"dealshub/backend/internal/telegram"
)

func usage() {
	fmt.Println(`Usage: admin <command> [args]

Commands:
  set-webhook <url>   register the Telegram webhook (secret from config)
  delete-webhook      unregister the Telegram webhook
  token               mint an admin bearer token
  check               run the health monitor once and print the result`)
	os.Exit(1)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
	}

	logger := zap.NewNop()

	switch os.Args[1] {
	case "set-webhook":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin set-webhook <url>")
			os.Exit(1)
		}
		client := mustClient(cfg, logger)
		if err := client.SetWebhook(os.Args[2], cfg.Telegram.WebhookSecret); err != nil {
			log.Fatalf("Failed to set webhook: %v", err)
		}
		fmt.Printf("Webhook set to %s\n", os.Args[2])

	case "delete-webhook":
		client := mustClient(cfg, logger)
		if err := client.DeleteWebhook(); err != nil {
			log.Fatalf("Failed to delete webhook: %v", err)
		}
		fmt.Println("Webhook deleted")

	case "token":
		token, err := handler.GenerateAdminToken(cfg.Admin.JWTSecret)
		if err != nil {
			log.Fatalf("Failed to mint token: %v", err)
		}
		fmt.Println(token)

	case "check":
		store, err := storage.NewService(cfg.Database.DSN(), nil, logger)
		if err != nil {
			log.Fatalf("Failed to connect database: %v", err)
		}
		mon := monitor.New(store, nil, nil, cfg.Monitor.IngestURL, logger)
		if cfg.Telegram.BotToken != "" {
			if client, err := telegram.NewClient(cfg.Telegram.BotToken, logger); err == nil {
				mon.Bot = client
			}
		}
		hc := mon.Run()
		fmt.Printf("score=%d flow=%v (recent=%d) bot=%v db=%v\n",
			hc.Score, hc.MessageFlowOK, hc.RecentCount, hc.BotOK, hc.DatabaseOK)
		if hc.Error != "" {
			fmt.Printf("error: %s\n", hc.Error)
		}
		if hc.Score < 100 {
			os.Exit(1)
		}

	default:
		usage()
	}
}

func mustClient(cfg *config.Config, logger *zap.Logger) *telegram.Client {
	if cfg.Telegram.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not configured")
	}
	client, err := telegram.NewClient(cfg.Telegram.BotToken, logger)
	if err != nil {
		log.Fatalf("Failed to create Telegram client: %v", err)
	}
	return client
}
