package storage

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dealshub/backend/internal/models"
)

// SaveHealthCheck appends one monitor-run snapshot.
func (s *Service) SaveHealthCheck(hc *models.HealthCheck) error {
	if err := s.dbHandle().Create(hc).Error; err != nil {
		s.logger.Error("Failed to save health check", zap.Error(err))
		return err
	}
	return nil
}

// LatestHealthCheck returns the most recent snapshot, or nil when none
// exists yet.
func (s *Service) LatestHealthCheck() (*models.HealthCheck, error) {
	var hc models.HealthCheck
	err := s.dbHandle().Order("created_at DESC").First(&hc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hc, nil
}

// SaveBotRun appends one ingestion batch snapshot.
func (s *Service) SaveBotRun(run *models.BotRun) error {
	if err := s.dbHandle().Create(run).Error; err != nil {
		s.logger.Error("Failed to save bot run", zap.Error(err))
		return err
	}
	return nil
}
