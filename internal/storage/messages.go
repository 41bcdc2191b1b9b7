package storage

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dealshub/backend/internal/models"
)

// ErrMessageNotFound is the typed not-found result for message lookups.
var ErrMessageNotFound = errors.New("message not found")

// InsertMessage stores one ingested deal. Inserts are idempotent on the
// source message_id: a duplicate webhook delivery is silently deduped and
// reported via created=false.
func (s *Service) InsertMessage(msg *models.Message) (bool, error) {
	res := s.dbHandle().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoNothing: true,
	}).Create(msg)
	if res.Error != nil {
		s.logger.Error("Failed to insert message",
			zap.Int64("message_id", msg.MessageID), zap.Error(res.Error))
		return false, res.Error
	}

	created := res.RowsAffected > 0
	if created {
		s.invalidateListings()
	}
	return created, nil
}

// UpdatePhotoURL backfills the resolved photo URL. The only mutation a
// message row ever sees after creation.
func (s *Service) UpdatePhotoURL(messageID int64, photoURL string) error {
	return s.dbHandle().Model(&models.Message{}).
		Where("message_id = ?", messageID).
		Update("photo_url", photoURL).Error
}

// GetMessageByMessageID looks a message up by its channel-scoped ID,
// engagement row and tags included.
func (s *Service) GetMessageByMessageID(messageID int64) (*models.Message, error) {
	var msg models.Message
	err := s.dbHandle().Preload("Engagement").Preload("Tags").
		Where("message_id = ?", messageID).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MessageQuery selects messages for the analytics aggregator.
type MessageQuery struct {
	Start    *time.Time
	End      *time.Time
	Store    string
	Category string
	Limit    int
}

// QueryMessages returns messages with their engagement row and tag set,
// newest first, capped at q.Limit.
func (s *Service) QueryMessages(q MessageQuery) ([]models.Message, error) {
	tx := s.dbHandle().Preload("Engagement").Preload("Tags")
	if q.Start != nil {
		tx = tx.Where("posted_at >= ?", *q.Start)
	}
	if q.End != nil {
		tx = tx.Where("posted_at <= ?", *q.End)
	}
	if q.Store != "" {
		tx = tx.Where("store = ?", q.Store)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var msgs []models.Message
	if err := tx.Order("posted_at DESC").Find(&msgs).Error; err != nil {
		s.logger.Error("Failed to query messages", zap.Error(err))
		return nil, err
	}
	return msgs, nil
}

// CountMessagesSince counts messages posted after the given time. The
// monitor's message-flow check.
func (s *Service) CountMessagesSince(since time.Time) (int64, error) {
	var n int64
	err := s.dbHandle().Model(&models.Message{}).Where("posted_at >= ?", since).Count(&n).Error
	return n, err
}

// ListQuery selects a page for the public deals listing.
type ListQuery struct {
	Store    string
	Category string
	// Sort is "newest" (default) or "views".
	Sort   string
	Limit  int
	Offset int
}

// listMessagesFromDB is the uncached listing query; ListMessages in cache.go
// fronts it with the 60 second Redis cache.
func (s *Service) listMessagesFromDB(q ListQuery) ([]models.Message, error) {
	tx := s.dbHandle().Model(&models.Message{}).Preload("Engagement").Preload("Tags")
	if q.Store != "" {
		tx = tx.Where("store = ?", q.Store)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	if q.Sort == "views" {
		tx = tx.Joins("LEFT JOIN engagements ON engagements.message_id = messages.message_id").
			Order("COALESCE(engagements.view_count, 0) DESC")
	} else {
		tx = tx.Order("posted_at DESC")
	}

	var msgs []models.Message
	err := tx.Limit(q.Limit).Offset(q.Offset).Find(&msgs).Error
	if err != nil {
		s.logger.Error("Failed to list messages", zap.Error(err))
		return nil, err
	}
	return msgs, nil
}
