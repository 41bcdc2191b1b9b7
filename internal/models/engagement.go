package models

import (
	"time"

	"gorm.io/gorm"
)

// Engagement action names accepted by the tracker.
const (
	ActionView  = "view"
	ActionClick = "click"
	ActionSave  = "save"
	ActionShare = "share"
)

// ValidAction reports whether action is one of the four tracked actions.
func ValidAction(action string) bool {
	switch action {
	case ActionView, ActionClick, ActionSave, ActionShare:
		return true
	}
	return false
}

// Engagement holds the per-message counters. The row is created lazily on
// the first tracked event; counters only ever move up.
type Engagement struct {
	gorm.Model

	// MessageID references Message.MessageID; at most one row per message.
	MessageID int64 `gorm:"uniqueIndex;not null" json:"message_id"`

	ViewCount  int64 `gorm:"not null;default:0" json:"view_count"`
	ClickCount int64 `gorm:"not null;default:0" json:"click_count"`
	SaveCount  int64 `gorm:"not null;default:0" json:"save_count"`
	ShareCount int64 `gorm:"not null;default:0" json:"share_count"`

	// Only view and click keep a last-seen timestamp.
	LastViewedAt  *time.Time `json:"last_viewed_at,omitempty"`
	LastClickedAt *time.Time `json:"last_clicked_at,omitempty"`
}

func (Engagement) TableName() string {
	return "engagements"
}

// Total is the sum of all four counters.
func (e Engagement) Total() int64 {
	return e.ViewCount + e.ClickCount + e.SaveCount + e.ShareCount
}
