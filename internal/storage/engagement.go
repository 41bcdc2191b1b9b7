package storage

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dealshub/backend/internal/models"
)

// IncrementEngagement bumps exactly one counter for the message, creating
// the counters row on first use. The whole operation is a single
// INSERT .. ON CONFLICT DO UPDATE, so concurrent events for the same
// message and action cannot lose increments. Only view and click maintain
// a last-action timestamp.
func (s *Service) IncrementEngagement(messageID int64, action string, now time.Time) (*models.Engagement, error) {
	eng := models.Engagement{MessageID: messageID}

	var counterCol, tsCol string
	switch action {
	case models.ActionView:
		counterCol, tsCol = "view_count", "last_viewed_at"
		eng.ViewCount = 1
		eng.LastViewedAt = &now
	case models.ActionClick:
		counterCol, tsCol = "click_count", "last_clicked_at"
		eng.ClickCount = 1
		eng.LastClickedAt = &now
	case models.ActionSave:
		counterCol = "save_count"
		eng.SaveCount = 1
	case models.ActionShare:
		counterCol = "share_count"
		eng.ShareCount = 1
	default:
		return nil, fmt.Errorf("invalid action %q", action)
	}

	assignments := map[string]interface{}{
		counterCol:   gorm.Expr(counterCol + " + 1"),
		"updated_at": now,
	}
	if tsCol != "" {
		assignments[tsCol] = now
	}

	err := s.dbHandle().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&eng).Error
	if err != nil {
		return nil, err
	}

	// Reload for the caller; the upsert result does not carry the summed
	// counters back.
	var current models.Engagement
	if err := s.dbHandle().Where("message_id = ?", messageID).First(&current).Error; err != nil {
		return nil, err
	}
	return &current, nil
}

// NormalizeTag applies the canonical tag form: lower-cased and trimmed.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// UpsertTag adds a tag to a message's tag set; adding an existing tag is a
// no-op.
func (s *Service) UpsertTag(messageID int64, tag string) error {
	tag = NormalizeTag(tag)
	if tag == "" {
		return fmt.Errorf("empty tag")
	}
	return s.dbHandle().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "tag"}},
		DoNothing: true,
	}).Create(&models.MessageTag{MessageID: messageID, Tag: tag}).Error
}

// DeleteTag removes one tag by exact match.
func (s *Service) DeleteTag(messageID int64, tag string) error {
	return s.dbHandle().Where("message_id = ? AND tag = ?", messageID, NormalizeTag(tag)).
		Delete(&models.MessageTag{}).Error
}
