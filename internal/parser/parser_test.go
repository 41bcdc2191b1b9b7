package parser

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealshub/backend/internal/affiliate"
	"dealshub/backend/internal/config"
)

func newTestParser() *Parser {
	return New(affiliate.NewLinker("dealshub-20"))
}

func TestExtractPrice(t *testing.T) {
	assert.Equal(t, "$19.99", ExtractPrice("Only $19.99 today"))
	assert.Equal(t, "$5", ExtractPrice("grab it for $5 while it lasts"))
	assert.Equal(t, "$12.50", ExtractPrice("was $12.50, now more"))
	assert.Equal(t, "", ExtractPrice("free item"))
	assert.Equal(t, "", ExtractPrice(""))
}

func TestExtractStore(t *testing.T) {
	assert.Equal(t, "Walmart", ExtractStore("Deal at Walmart now"))
	assert.Equal(t, "Best Buy", ExtractStore("BESTBUY flash sale"))
	assert.Equal(t, "Lowe's", ExtractStore("tools at lowes today"))
	assert.Equal(t, "", ExtractStore("random text"))
	assert.Equal(t, "", ExtractStore(""))
}

func TestExtractCategory(t *testing.T) {
	assert.Equal(t, "Electronics", ExtractCategory("Great laptop deal"))
	assert.Equal(t, "Toys & Games", ExtractCategory("LEGO set 40% off"))
	assert.Equal(t, "Other", ExtractCategory("something unclassifiable"))
	assert.Equal(t, "Other", ExtractCategory(""))
}

// Every input maps to exactly one of the fixed labels.
func TestExtractCategory_Total(t *testing.T) {
	labels := map[string]bool{config.CategoryOther: true}
	for _, c := range config.Categories {
		labels[c.Label] = true
	}

	for _, text := range []string{"laptop", "", "shoes and coffee", "???", "LAPTOP"} {
		got := ExtractCategory(text)
		assert.True(t, labels[got], "unexpected category %q for %q", got, text)
		// Idempotent over repeated calls.
		assert.Equal(t, got, ExtractCategory(text))
	}
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Hot deal on headphones", ExtractTitle("Hot deal on headphones\n$29.99 at Target"))
	assert.Equal(t, "Deal:", ExtractTitle("Deal: https://example.com/item"))
	assert.Equal(t, "", ExtractTitle(""))

	long := strings.Repeat("a", 150)
	got := ExtractTitle(long)
	assert.Len(t, got, 103)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestExtractLinks_Entities(t *testing.T) {
	p := newTestParser()
	text := "Buy here: https://www.amazon.com/dp/B08N5WRWNW now"

	links := p.ExtractLinks(text, []tgbotapi.MessageEntity{
		{Type: "url", Offset: 10, Length: 36},
		{Type: "text_link", URL: "https://www.target.com/p/1"},
	})

	require.Len(t, links, 2)
	assert.Contains(t, links[0], "tag=dealshub-20")
	assert.Equal(t, "https://www.target.com/p/1", links[1])
}

func TestExtractLinks_FallbackScanRewritesToo(t *testing.T) {
	p := newTestParser()
	text := "https://www.amazon.com/dp/B08N5WRWNW and https://example.com/x"

	links := p.ExtractLinks(text, nil)

	require.Len(t, links, 2)
	assert.Contains(t, links[0], "tag=dealshub-20")
	assert.Equal(t, "https://example.com/x", links[1])
}

func TestParseMessage(t *testing.T) {
	p := newTestParser()
	msg := &tgbotapi.Message{
		MessageID: 42,
		Date:      1700000000,
		Chat:      &tgbotapi.Chat{ID: -100123},
		Text:      "Sony headphones $49.99 at Walmart\nhttps://www.walmart.com/ip/1",
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small"},
			{FileID: "large"},
		},
	}

	res, err := p.ParseMessage(msg)

	require.NoError(t, err)
	assert.Equal(t, int64(42), res.Message.MessageID)
	assert.Equal(t, int64(-100123), res.Message.ChannelID)
	assert.Equal(t, "$49.99", res.Message.Price)
	assert.Equal(t, "Walmart", res.Message.Store)
	assert.Equal(t, "Electronics", res.Message.Category)
	assert.Equal(t, "Sony headphones $49.99 at Walmart", res.Message.Title)
	assert.True(t, res.Message.HasPhoto)
	assert.Equal(t, "large", res.PhotoFileID)
	require.Len(t, res.Message.Links, 1)
}

func TestParseMessage_CaptionFallback(t *testing.T) {
	p := newTestParser()
	msg := &tgbotapi.Message{
		MessageID: 7,
		Caption:   "Air fryer $39 at Target",
	}

	res, err := p.ParseMessage(msg)

	require.NoError(t, err)
	assert.Equal(t, "Target", res.Message.Store)
	assert.Equal(t, "Home & Kitchen", res.Message.Category)
}

func TestParseMessage_MissingID(t *testing.T) {
	p := newTestParser()

	_, err := p.ParseMessage(&tgbotapi.Message{})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	_, err = p.ParseMessage(nil)
	assert.ErrorIs(t, err, ErrInvalidMessage)
}
