package storage

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dealshub/backend/internal/models"
)

// Storage is the persistence surface the handlers and services depend on.
type Storage interface {
	// Messages
	InsertMessage(msg *models.Message) (created bool, err error)
	UpdatePhotoURL(messageID int64, photoURL string) error
	GetMessageByMessageID(messageID int64) (*models.Message, error)
	QueryMessages(q MessageQuery) ([]models.Message, error)
	ListMessages(q ListQuery) ([]models.Message, error)
	CountMessagesSince(since time.Time) (int64, error)

	// Engagement
	IncrementEngagement(messageID int64, action string, now time.Time) (*models.Engagement, error)

	// Tags
	UpsertTag(messageID int64, tag string) error
	DeleteTag(messageID int64, tag string) error

	// Monitoring snapshots
	SaveHealthCheck(hc *models.HealthCheck) error
	LatestHealthCheck() (*models.HealthCheck, error)
	SaveBotRun(run *models.BotRun) error

	// Events and liveness
	PublishDeal(msg models.Message) error
	Ping() error
	Reconnect() error
}

// Service implements Storage over PostgreSQL (gorm) with Redis for the
// listing cache and deal pub/sub. Redis may be nil; caching and publishing
// then degrade to no-ops.
type Service struct {
	// mu guards db: Reconnect swaps the handle from the monitor goroutine
	// while request handlers are reading it.
	mu     sync.RWMutex
	db     *gorm.DB
	Redis  *redis.Client
	Ctx    context.Context
	dsn    string
	logger *zap.Logger
}

func (s *Service) dbHandle() *gorm.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

func (s *Service) setDB(db *gorm.DB) {
	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
}

// NewService connects, runs migrations and returns the storage service.
func NewService(dsn string, rdb *redis.Client, logger *zap.Logger) (*Service, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Message{},
		&models.Engagement{},
		&models.MessageTag{},
		&models.HealthCheck{},
		&models.BotRun{},
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		db:     db,
		Redis:  rdb,
		Ctx:    context.Background(),
		dsn:    dsn,
		logger: logger,
	}, nil
}

// Ping runs a trivial count query to confirm the database is reachable.
func (s *Service) Ping() error {
	var n int64
	return s.dbHandle().Model(&models.Message{}).Limit(1).Count(&n).Error
}

// Reconnect re-opens the database connection. Used by the monitor's
// best-effort recovery; the old gorm session is left to the GC.
func (s *Service) Reconnect() error {
	db, err := gorm.Open(postgres.Open(s.dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	s.setDB(db)
	s.logger.Info("Storage reconnected")
	return nil
}
