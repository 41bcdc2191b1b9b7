package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealshub/backend/internal/models"
)

func msgWith(id int64, views, clicks int64, opts ...func(*models.Message)) models.Message {
	m := models.Message{
		MessageID: id,
		Title:     "deal",
		Category:  "Other",
		PostedAt:  time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		Engagement: &models.Engagement{
			MessageID:  id,
			ViewCount:  views,
			ClickCount: clicks,
		},
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		params  Params
		wantErr int
	}{
		{"valid week", Params{Timeframe: "week", Limit: 10}, 0},
		{"valid custom", Params{Timeframe: "custom", StartDate: "2024-01-01", EndDate: "2024-01-31", Limit: 10}, 0},
		{"bad timeframe", Params{Timeframe: "decade", Limit: 10}, 1},
		{"custom missing dates", Params{Timeframe: "custom", Limit: 10}, 2},
		{"custom reversed", Params{Timeframe: "custom", StartDate: "2024-02-01", EndDate: "2024-01-01", Limit: 10}, 1},
		{"limit too big", Params{Timeframe: "day", Limit: 101}, 1},
		{"limit zero", Params{Timeframe: "day", Limit: 0}, 1},
		{"everything wrong", Params{Timeframe: "x", Limit: -1}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, tc.params.Validate(), tc.wantErr)
		})
	}
}

func TestWindow(t *testing.T) {
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

	start, end := Params{Timeframe: "day"}.Window(now)
	assert.Equal(t, now.Add(-24*time.Hour), *start)
	assert.Equal(t, now, *end)

	start, _ = Params{Timeframe: "month"}.Window(now)
	assert.Equal(t, time.Date(2024, 4, 15, 10, 0, 0, 0, time.UTC), *start)

	start, end = Params{Timeframe: "all"}.Window(now)
	assert.Nil(t, start)
	assert.Nil(t, end)

	start, end = Params{Timeframe: "custom", StartDate: "2024-01-01", EndDate: "2024-01-02"}.Window(now)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *start)
	assert.True(t, end.After(time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)))
}

func TestBuildReport_SummaryAndCTR(t *testing.T) {
	msgs := []models.Message{
		msgWith(1, 100, 10),
		msgWith(2, 50, 5),
		msgWith(3, 0, 0),
	}

	report := BuildReport(msgs, Params{Timeframe: "week"})

	assert.Equal(t, 3, report.Summary.MessageCount)
	assert.Equal(t, int64(150), report.Summary.TotalViews)
	assert.Equal(t, int64(15), report.Summary.TotalClicks)
	// 15/150*100 = 10.00
	assert.Equal(t, 10.0, report.Summary.OverallCTR)

	// Per-message CTR rounds to 2 decimals.
	assert.Equal(t, 10.0, report.Messages[0].CTR)
	assert.Equal(t, 0.0, report.Messages[2].CTR)
}

func TestBuildReport_ZeroViewsNoDivide(t *testing.T) {
	report := BuildReport([]models.Message{msgWith(1, 0, 5)}, Params{Timeframe: "week"})

	assert.Equal(t, 0.0, report.Summary.OverallCTR)
	assert.Equal(t, 0.0, report.Messages[0].CTR)
}

func TestBuildReport_TopPerformers(t *testing.T) {
	var msgs []models.Message
	for i := int64(1); i <= 8; i++ {
		msgs = append(msgs, msgWith(i, i*10, i))
	}

	report := BuildReport(msgs, Params{Timeframe: "week"})

	mv := report.TopPerformers.MostViewed
	require.Len(t, mv, 5)
	for i := 1; i < len(mv); i++ {
		assert.GreaterOrEqual(t, mv[i-1].Views, mv[i].Views)
	}
	assert.Equal(t, int64(8), mv[0].MessageID)
}

func TestBuildReport_BestCTRRequiresMinViews(t *testing.T) {
	msgs := []models.Message{
		msgWith(1, 5, 5),   // 100% CTR but below 10 views
		msgWith(2, 100, 20), // 20% CTR, eligible
	}

	report := BuildReport(msgs, Params{Timeframe: "week"})

	require.Len(t, report.TopPerformers.BestCTR, 1)
	assert.Equal(t, int64(2), report.TopPerformers.BestCTR[0].MessageID)
}

func TestBuildReport_BestCTROrdersCloseRatios(t *testing.T) {
	// 0.28% vs 0.29% CTR; the rounded values are distinct and the higher
	// one must rank first even when it comes later in the input.
	msgs := []models.Message{
		msgWith(1, 10000, 28),
		msgWith(2, 10000, 29),
	}

	report := BuildReport(msgs, Params{Timeframe: "week"})

	require.Len(t, report.TopPerformers.BestCTR, 2)
	assert.Equal(t, int64(2), report.TopPerformers.BestCTR[0].MessageID)
	assert.Equal(t, int64(1), report.TopPerformers.BestCTR[1].MessageID)
}

func TestBuildReport_TagFilter(t *testing.T) {
	tagged := msgWith(1, 10, 1, func(m *models.Message) {
		m.Tags = []models.MessageTag{{MessageID: 1, Tag: "hot"}}
	})
	untagged := msgWith(2, 10, 1)

	report := BuildReport([]models.Message{tagged, untagged}, Params{Timeframe: "week", Tag: "HOT"})

	require.Equal(t, 1, report.Summary.MessageCount)
	assert.Equal(t, int64(1), report.Messages[0].MessageID)
}

func TestBuildReport_Segmentation(t *testing.T) {
	day1 := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 11, 8, 0, 0, 0, time.UTC)
	msgs := []models.Message{
		msgWith(1, 10, 1, func(m *models.Message) { m.Store = "Walmart"; m.Category = "Electronics"; m.PostedAt = day2 }),
		msgWith(2, 20, 4, func(m *models.Message) { m.Store = "Walmart"; m.Category = "Toys & Games"; m.PostedAt = day1 }),
		msgWith(3, 5, 0, func(m *models.Message) { m.Category = "Electronics"; m.PostedAt = day1 }),
	}

	report := BuildReport(msgs, Params{Timeframe: "week"})
	seg := report.Segmentation

	require.Contains(t, seg.ByStore, "Walmart")
	assert.Equal(t, 2, seg.ByStore["Walmart"].Messages)
	assert.Equal(t, int64(30), seg.ByStore["Walmart"].Views)
	// 5/30*100 = 16.67
	assert.Equal(t, 16.67, seg.ByStore["Walmart"].CTR)

	assert.Equal(t, 2, seg.ByCategory["Electronics"].Messages)

	require.Len(t, seg.ByDay, 2)
	assert.Equal(t, "2024-05-10", seg.ByDay[0].Date)
	assert.Equal(t, "2024-05-11", seg.ByDay[1].Date)
	assert.Equal(t, 2, seg.ByDay[0].Messages)
}

func TestNormalizeDefaults(t *testing.T) {
	p := Params{}
	p.Normalize()

	assert.Equal(t, "week", p.Timeframe)
	assert.Equal(t, 50, p.Limit)
	assert.Empty(t, p.Validate())
}
