package models

import (
	"time"

	"github.com/lib/pq" // pq.StringArray for the links column
	"gorm.io/gorm"
)

// Message represents one ingested deal post from the Telegram channel.
// A row is created once by the webhook handler and is immutable afterwards,
// except for PhotoURL which may be backfilled by a later getFile resolution.
type Message struct {
	gorm.Model

	// MessageID is the channel-scoped Telegram message sequence number.
	// The unique index makes webhook re-deliveries idempotent.
	MessageID int64 `gorm:"uniqueIndex;not null" json:"message_id"`
	// ChannelID is the Telegram chat the post came from.
	ChannelID int64 `gorm:"index" json:"channel_id"`
	// Text is the raw post text (or caption) as received.
	Text string `gorm:"type:text" json:"text"`
	// PostedAt is the Telegram-side timestamp of the post.
	PostedAt time.Time `gorm:"index" json:"posted_at"`

	// Price keeps the currency symbol as posted, e.g. "$19.99". Empty when
	// no price was found.
	Price string `json:"price"`
	// Store is one of the known retailer labels, or empty.
	Store string `gorm:"index" json:"store"`
	// Category is one of the fixed category labels, defaulting to "Other".
	Category string `gorm:"index" json:"category"`
	// Title is the first line of the cleaned text, capped at 100 characters.
	Title string `json:"title"`
	// Links holds every URL found in the post. Amazon links carry the
	// configured affiliate tag.
	Links pq.StringArray `gorm:"type:text[]" json:"links"`

	// HasPhoto records whether the post carried a photo.
	HasPhoto bool `json:"has_photo"`
	// PhotoURL is the resolved Telegram file URL, when available.
	PhotoURL string `json:"photo_url,omitempty"`

	// Engagement is the at-most-one counters row for this message.
	Engagement *Engagement `gorm:"foreignKey:MessageID;references:MessageID" json:"engagement,omitempty"`
	// Tags is the message's tag set.
	Tags []MessageTag `gorm:"foreignKey:MessageID;references:MessageID" json:"tags,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
