package models

import "time"

// MessageTag is a free-text tag attached to a message. Membership is a set:
// the composite unique index rejects duplicate (message, tag) pairs, and
// tags are stored lower-cased and trimmed. Rows are hard-deleted so a
// removed tag can be re-added.
type MessageTag struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	MessageID int64  `gorm:"uniqueIndex:idx_message_tag;not null" json:"message_id"`
	Tag       string `gorm:"uniqueIndex:idx_message_tag;not null" json:"tag"`
}

func (MessageTag) TableName() string {
	return "message_tags"
}
