package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dealshub/backend/internal/models"
)

// Listing cache and deal event fan-out. Both are best-effort: Redis being
// down (or nil) never fails a request, it just means an uncached query and
// no live event.

const (
	listCacheTTL    = 60 * time.Second
	listCachePrefix = "deals:list:"

	// DealsChannel is the pub/sub channel ingestion publishes to and the
	// live feed hub subscribes on.
	DealsChannel = "deals:new"
)

func listCacheKey(q ListQuery) string {
	return fmt.Sprintf("%s%s|%s|%s|%d|%d",
		listCachePrefix, q.Store, q.Category, q.Sort, q.Limit, q.Offset)
}

// ListMessages serves the deals listing through the 60 second cache.
// Writes (InsertMessage) invalidate the whole listing keyspace, so readers
// never see stale pages beyond a failed invalidation.
func (s *Service) ListMessages(q ListQuery) ([]models.Message, error) {
	return s.listThroughCache(q, func() ([]models.Message, error) {
		return s.listMessagesFromDB(q)
	})
}

func (s *Service) listThroughCache(q ListQuery, fetch func() ([]models.Message, error)) ([]models.Message, error) {
	if s.Redis == nil {
		return fetch()
	}

	key := listCacheKey(q)
	if payload, err := s.Redis.Get(s.Ctx, key).Result(); err == nil {
		var msgs []models.Message
		if err := json.Unmarshal([]byte(payload), &msgs); err == nil {
			return msgs, nil
		}
	}

	msgs, err := fetch()
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(msgs); err == nil {
		if err := s.Redis.Set(s.Ctx, key, payload, listCacheTTL).Err(); err != nil {
			s.logger.Warn("Failed to cache listing", zap.Error(err))
		}
	}
	return msgs, nil
}

// invalidateListings drops every cached listing page after a write.
func (s *Service) invalidateListings() {
	if s.Redis == nil {
		return
	}
	keys, err := s.Redis.Keys(s.Ctx, listCachePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.Redis.Del(s.Ctx, keys...).Err(); err != nil {
		s.logger.Warn("Failed to invalidate listing cache", zap.Error(err))
	}
}

// PublishDeal broadcasts a newly ingested deal over Redis pub/sub.
func (s *Service) PublishDeal(msg models.Message) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, DealsChannel, payload).Err()
}

// SubscribeDeals opens the pub/sub subscription used by the live feed hub.
// Returns nil when Redis is not configured.
func (s *Service) SubscribeDeals() *redis.PubSub {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Subscribe(s.Ctx, DealsChannel)
}
