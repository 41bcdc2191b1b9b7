package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dealshub/backend/internal/models"
)

func newCacheService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := &Service{
		Redis:  rdb,
		Ctx:    context.Background(),
		logger: zap.NewNop(),
	}
	return s, mr
}

// countingFetch stands in for the database query behind the cache.
func countingFetch(calls *int, msgs []models.Message) func() ([]models.Message, error) {
	return func() ([]models.Message, error) {
		*calls++
		return msgs, nil
	}
}

func TestListThroughCache_SecondCallIsServedFromCache(t *testing.T) {
	// Arrange
	s, _ := newCacheService(t)
	q := ListQuery{Limit: 20}
	calls := 0
	fetch := countingFetch(&calls, []models.Message{{MessageID: 1, Title: "deal"}})

	// Act
	first, err := s.listThroughCache(q, fetch)
	require.NoError(t, err)
	second, err := s.listThroughCache(q, fetch)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	require.Len(t, second, 1)
	assert.Equal(t, int64(1), second[0].MessageID)
}

func TestListThroughCache_DistinctQueriesGetDistinctEntries(t *testing.T) {
	s, _ := newCacheService(t)
	calls := 0
	fetch := countingFetch(&calls, nil)

	_, err := s.listThroughCache(ListQuery{Store: "Amazon", Limit: 20}, fetch)
	require.NoError(t, err)
	_, err = s.listThroughCache(ListQuery{Store: "Walmart", Limit: 20}, fetch)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestListThroughCache_InvalidationDropsCachedPages(t *testing.T) {
	// Arrange: a cached page for two different queries.
	s, _ := newCacheService(t)
	calls := 0
	fetch := countingFetch(&calls, []models.Message{{MessageID: 1}})
	_, err := s.listThroughCache(ListQuery{Limit: 20}, fetch)
	require.NoError(t, err)
	_, err = s.listThroughCache(ListQuery{Sort: "views", Limit: 20}, fetch)
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	// Act: the write path's invalidation, as run by InsertMessage.
	s.invalidateListings()

	// Assert: both pages are gone and the next reads refetch.
	_, err = s.listThroughCache(ListQuery{Limit: 20}, fetch)
	require.NoError(t, err)
	_, err = s.listThroughCache(ListQuery{Sort: "views", Limit: 20}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestListThroughCache_EntriesExpire(t *testing.T) {
	s, mr := newCacheService(t)
	calls := 0
	fetch := countingFetch(&calls, nil)
	_, err := s.listThroughCache(ListQuery{Limit: 20}, fetch)
	require.NoError(t, err)

	mr.FastForward(listCacheTTL + time.Second)

	_, err = s.listThroughCache(ListQuery{Limit: 20}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestListThroughCache_NilRedisFetchesDirectly(t *testing.T) {
	s := &Service{logger: zap.NewNop()}
	calls := 0
	fetch := countingFetch(&calls, nil)

	_, err := s.listThroughCache(ListQuery{Limit: 20}, fetch)
	require.NoError(t, err)
	_, err = s.listThroughCache(ListQuery{Limit: 20}, fetch)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}
