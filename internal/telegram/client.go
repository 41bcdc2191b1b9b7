// Package telegram wraps the Bot API calls the service needs: resolving
// photo file URLs, credential checks and webhook registration.
package telegram

import (
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// fileFetchTimeout caps the getFile round trip.
const fileFetchTimeout = 10 * time.Second

// Client is a thin wrapper over tgbotapi.BotAPI.
type Client struct {
	bot    *tgbotapi.BotAPI
	token  string
	logger *zap.Logger
}

// NewClient authorizes against the Bot API. The underlying HTTP client
// carries the 10 second timeout used for all calls.
func NewClient(token string, logger *zap.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: fileFetchTimeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, err
	}
	logger.Info("Authorized on Telegram", zap.String("username", bot.Self.UserName))
	return &Client{bot: bot, token: token, logger: logger}, nil
}

// FileURL resolves a file ID into a direct download URL via getFile.
// Any failure is swallowed and reported as "": a missing photo URL is never
// worth failing an ingestion over.
func (c *Client) FileURL(fileID string) string {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		c.logger.Warn("getFile failed", zap.String("file_id", fileID), zap.Error(err))
		return ""
	}
	if file.FilePath == "" {
		return ""
	}
	return file.Link(c.token)
}

// CheckBot verifies the bot credentials with getMe.
func (c *Client) CheckBot() error {
	_, err := c.bot.GetMe()
	return err
}

// SetWebhook registers url as the channel webhook. The secret token, when
// set, is echoed back by Telegram in X-Telegram-Bot-Api-Secret-Token.
func (c *Client) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	if secret != "" {
		params["secret_token"] = secret
	}
	_, err := c.bot.MakeRequest("setWebhook", params)
	return err
}

// DeleteWebhook removes the webhook registration.
func (c *Client) DeleteWebhook() error {
	_, err := c.bot.MakeRequest("deleteWebhook", tgbotapi.Params{})
	return err
}
