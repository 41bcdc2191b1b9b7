package engagement_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealshub/backend/internal/engagement"
	"dealshub/backend/internal/models"
	"dealshub/backend/internal/storage"
)

func seedMessage(t *testing.T, store *storage.Memory, messageID int64) {
	t.Helper()
	created, err := store.InsertMessage(&models.Message{
		MessageID: messageID,
		PostedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestTrack_ThreeViews(t *testing.T) {
	// Arrange
	store := storage.NewMemory()
	seedMessage(t, store, 42)
	tracker := engagement.NewTracker(store)

	// Act
	var res *engagement.Result
	for i := 0; i < 3; i++ {
		var err error
		res, err = tracker.Track(42, models.ActionView)
		require.NoError(t, err)
	}

	// Assert
	require.NotNil(t, res.Engagement)
	assert.Equal(t, int64(3), res.Engagement.ViewCount)
	assert.Equal(t, int64(0), res.Engagement.ClickCount)
	assert.Equal(t, int64(0), res.Engagement.SaveCount)
	assert.Equal(t, int64(0), res.Engagement.ShareCount)
	assert.NotNil(t, res.Engagement.LastViewedAt)
	assert.Nil(t, res.Engagement.LastClickedAt)
}

func TestTrack_ConcurrentViewsLoseNothing(t *testing.T) {
	store := storage.NewMemory()
	seedMessage(t, store, 7)
	tracker := engagement.NewTracker(store)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tracker.Track(7, models.ActionView)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	res, err := tracker.Track(7, models.ActionClick)
	require.NoError(t, err)
	assert.Equal(t, int64(n), res.Engagement.ViewCount)
	assert.Equal(t, int64(1), res.Engagement.ClickCount)
}

func TestTrack_SaveKeepsNoTimestamp(t *testing.T) {
	store := storage.NewMemory()
	seedMessage(t, store, 9)
	tracker := engagement.NewTracker(store)

	res, err := tracker.Track(9, models.ActionSave)

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Engagement.SaveCount)
	assert.Nil(t, res.Engagement.LastViewedAt)
	assert.Nil(t, res.Engagement.LastClickedAt)
}

func TestTrack_Validation(t *testing.T) {
	tracker := engagement.NewTracker(storage.NewMemory())

	_, err := tracker.Track(0, models.ActionView)
	assert.ErrorIs(t, err, engagement.ErrInvalidParams)

	_, err = tracker.Track(1, "")
	assert.ErrorIs(t, err, engagement.ErrInvalidParams)

	_, err = tracker.Track(1, "like")
	assert.ErrorContains(t, err, "invalid action")
}

func TestTrack_MessageNotFound(t *testing.T) {
	tracker := engagement.NewTracker(storage.NewMemory())

	_, err := tracker.Track(999, models.ActionView)

	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}

func TestTrack_NoStorageFallback(t *testing.T) {
	tracker := engagement.NewTracker(nil)

	res, err := tracker.Track(1, models.ActionShare)

	require.NoError(t, err)
	assert.True(t, res.Mocked)
	assert.Nil(t, res.Engagement)
}
