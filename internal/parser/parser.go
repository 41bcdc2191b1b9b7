// Package parser turns raw Telegram channel posts into structured deal
// records: price, store, category, title and affiliate-rewritten links.
package parser

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/lib/pq"

	"dealshub/backend/internal/affiliate"
	"dealshub/backend/internal/config"
	"dealshub/backend/internal/models"
)

// ErrInvalidMessage is returned for messages without an identifier.
var ErrInvalidMessage = errors.New("invalid message: missing message id")

var (
	pricePattern = regexp.MustCompile(`\$\d+(\.\d{2})?`)
	urlPattern   = regexp.MustCompile(`https?://[^\s<>"]+`)
)

const titleMaxLen = 100

// Parser extracts deal fields from post text. It is stateless apart from the
// affiliate linker used to rewrite Amazon URLs.
type Parser struct {
	linker *affiliate.Linker
}

func New(linker *affiliate.Linker) *Parser {
	return &Parser{linker: linker}
}

// ExtractPrice returns the first "$12" / "$12.99" style token, or "".
func ExtractPrice(text string) string {
	if text == "" {
		return ""
	}
	return pricePattern.FindString(text)
}

// ExtractStore matches the text against the known retailer table,
// case-insensitively, first entry in table order wins. Returns "" when no
// retailer is mentioned.
func ExtractStore(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, store := range config.KnownStores {
		for _, p := range store.Patterns {
			if strings.Contains(lower, p) {
				return store.Label
			}
		}
	}
	return ""
}

// ExtractCategory maps the text onto the fixed category table, first match
// in table order wins. The function is total: anything unmatched, including
// empty text, is "Other".
func ExtractCategory(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range config.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.Label
			}
		}
	}
	return config.CategoryOther
}

// ExtractTitle strips URLs, takes the first line and caps it at 100
// characters with an ellipsis.
func ExtractTitle(text string) string {
	if text == "" {
		return ""
	}
	cleaned := strings.TrimSpace(urlPattern.ReplaceAllString(text, ""))
	if cleaned == "" {
		return ""
	}
	line := cleaned
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		line = strings.TrimSpace(cleaned[:idx])
	}
	runes := []rune(line)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	return line
}

// ExtractLinks collects URLs from the message. When Telegram entity
// annotations are present they are authoritative (url entities are sliced
// out of the text by UTF-16 offsets, text_link entities carry the URL
// directly); otherwise the raw text is regex-scanned. Amazon links are
// rewritten to affiliate form on both paths.
func (p *Parser) ExtractLinks(text string, entities []tgbotapi.MessageEntity) []string {
	var links []string
	if len(entities) > 0 {
		encoded := utf16.Encode([]rune(text))
		for _, e := range entities {
			switch e.Type {
			case "url":
				if e.Offset < 0 || e.Offset+e.Length > len(encoded) {
					continue
				}
				links = append(links, string(utf16.Decode(encoded[e.Offset:e.Offset+e.Length])))
			case "text_link":
				if e.URL != "" {
					links = append(links, e.URL)
				}
			}
		}
	} else {
		links = urlPattern.FindAllString(text, -1)
	}

	for i, link := range links {
		links[i] = p.linker.ConvertLink(link)
	}
	return links
}

// Result is one parsed post. PhotoFileID is the Telegram file reference of
// the largest photo, to be resolved into Message.PhotoURL by a separate
// Bot API call when wanted.
type Result struct {
	Message     models.Message
	PhotoFileID string
}

// ParseMessage combines all extractors into one record. Messages without an
// identifier are rejected with ErrInvalidMessage.
func (p *Parser) ParseMessage(msg *tgbotapi.Message) (*Result, error) {
	if msg == nil || msg.MessageID == 0 {
		return nil, ErrInvalidMessage
	}

	text := msg.Text
	entities := msg.Entities
	if text == "" {
		text = msg.Caption
		entities = msg.CaptionEntities
	}

	res := &Result{
		Message: models.Message{
			MessageID: int64(msg.MessageID),
			Text:      text,
			PostedAt:  time.Unix(int64(msg.Date), 0).UTC(),
			Price:     ExtractPrice(text),
			Store:     ExtractStore(text),
			Category:  ExtractCategory(text),
			Title:     ExtractTitle(text),
			Links:     pq.StringArray(p.ExtractLinks(text, entities)),
		},
	}
	if msg.Chat != nil {
		res.Message.ChannelID = msg.Chat.ID
	}

	if len(msg.Photo) > 0 {
		res.Message.HasPhoto = true
		// Telegram orders photo sizes ascending; the last one is largest.
		res.PhotoFileID = msg.Photo[len(msg.Photo)-1].FileID
	}

	return res, nil
}
