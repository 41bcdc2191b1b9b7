package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"dealshub/backend/internal/config"
)

type gptResponse struct {
	Tags []string `json:"tags"`
}

// GPTTagger asks a chat-completion model for deal tags and falls back to
// the keyword tagger on any failure.
type GPTTagger struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	maxTags     int
	fallback    *KeywordTagger
	logger      *zap.Logger
}

func NewGPTTagger(cfg config.OpenAIConfig, logger *zap.Logger) *GPTTagger {
	return &GPTTagger{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		maxTags:     cfg.MaxTags,
		fallback:    NewKeywordTagger(cfg.MaxTags),
		logger:      logger,
	}
}

func (c *GPTTagger) SuggestTags(content string) []string {
	ctx := context.Background()

	prompt := fmt.Sprintf(`Suggest up to %d short lower-case tags for this deal post (brand, product type, sale type). Return a JSON object: {"tags": ["tag1", ...]}.

Post: %s`, c.maxTags, content)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
	})
	if err != nil {
		c.logger.Warn("GPT tag suggestion failed", zap.Error(err))
		return c.fallback.SuggestTags(content)
	}

	var parsed gptResponse
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "`")
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		c.logger.Warn("Failed to parse GPT tag response",
			zap.Error(err), zap.String("response", raw))
		return c.fallback.SuggestTags(content)
	}

	tags := make([]string, 0, len(parsed.Tags))
	for _, t := range parsed.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) > c.maxTags {
		tags = tags[:c.maxTags]
	}
	return tags
}
