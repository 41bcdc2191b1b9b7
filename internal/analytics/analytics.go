// Package analytics computes engagement rollups over the ingested deal
// messages: per-message stats, top performer lists, store/category/day
// segmentation. All aggregation happens in memory over one capped query
// page; nothing here issues database-side aggregates.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"dealshub/backend/internal/models"
	"dealshub/backend/internal/storage"
)

// Timeframe names accepted by Params.
const (
	TimeframeDay    = "day"
	TimeframeWeek   = "week"
	TimeframeMonth  = "month"
	TimeframeYear   = "year"
	TimeframeAll    = "all"
	TimeframeCustom = "custom"
)

const (
	dateLayout = "2006-01-02"
	topN       = 5
	// minViewsForCTR keeps low-traffic flukes out of the best-CTR list.
	minViewsForCTR = 10
	MaxLimit       = 100
)

// Params is one analytics query. Zero values for Timeframe and Limit are
// filled with defaults by Normalize; everything else is optional.
type Params struct {
	Timeframe string
	StartDate string
	EndDate   string
	Limit     int
	Store     string
	Category  string
	Tag       string
}

// Normalize fills defaults for omitted fields.
func (p *Params) Normalize() {
	if p.Timeframe == "" {
		p.Timeframe = TimeframeWeek
	}
	if p.Limit == 0 {
		p.Limit = 50
	}
}

// Validate returns every validation failure at once; an empty slice means
// the params are usable. Nothing executes partially on invalid input.
func (p Params) Validate() []string {
	var errs []string

	switch p.Timeframe {
	case TimeframeDay, TimeframeWeek, TimeframeMonth, TimeframeYear, TimeframeAll, TimeframeCustom:
	default:
		errs = append(errs, fmt.Sprintf("timeframe must be one of day, week, month, year, all, custom; got %q", p.Timeframe))
	}

	if p.Timeframe == TimeframeCustom {
		start, startErr := time.Parse(dateLayout, p.StartDate)
		end, endErr := time.Parse(dateLayout, p.EndDate)
		if p.StartDate == "" || startErr != nil {
			errs = append(errs, "startDate must be provided as YYYY-MM-DD for custom timeframe")
		}
		if p.EndDate == "" || endErr != nil {
			errs = append(errs, "endDate must be provided as YYYY-MM-DD for custom timeframe")
		}
		if startErr == nil && endErr == nil && start.After(end) {
			errs = append(errs, "startDate must not be after endDate")
		}
	}

	if p.Limit < 1 || p.Limit > MaxLimit {
		errs = append(errs, fmt.Sprintf("limit must be an integer between 1 and %d", MaxLimit))
	}

	return errs
}

// Window computes the [start, end] query bounds for the timeframe. Nil
// bounds mean unbounded ("all"). Custom dates snap to UTC day boundaries.
func (p Params) Window(now time.Time) (start, end *time.Time) {
	now = now.UTC()
	switch p.Timeframe {
	case TimeframeDay:
		s := now.Add(-24 * time.Hour)
		return &s, &now
	case TimeframeWeek:
		s := now.Add(-7 * 24 * time.Hour)
		return &s, &now
	case TimeframeMonth:
		s := now.AddDate(0, -1, 0)
		return &s, &now
	case TimeframeYear:
		s := now.AddDate(-1, 0, 0)
		return &s, &now
	case TimeframeCustom:
		s, _ := time.Parse(dateLayout, p.StartDate)
		e, _ := time.Parse(dateLayout, p.EndDate)
		e = e.Add(24*time.Hour - time.Nanosecond)
		return &s, &e
	default: // all
		return nil, nil
	}
}

// MessageStats is one message with its derived engagement metrics.
type MessageStats struct {
	MessageID int64     `json:"message_id"`
	Title     string    `json:"title"`
	Price     string    `json:"price,omitempty"`
	Store     string    `json:"store,omitempty"`
	Category  string    `json:"category"`
	PostedAt  time.Time `json:"posted_at"`
	Tags      []string  `json:"tags,omitempty"`

	Views  int64 `json:"views"`
	Clicks int64 `json:"clicks"`
	Saves  int64 `json:"saves"`
	Shares int64 `json:"shares"`

	TotalEngagement int64 `json:"total_engagement"`
	// CTR is clicks/views*100 rounded to 2 decimals, 0 when views is 0.
	CTR float64 `json:"ctr"`
}

// Summary aggregates the whole filtered set.
type Summary struct {
	MessageCount int     `json:"message_count"`
	TotalViews   int64   `json:"total_views"`
	TotalClicks  int64   `json:"total_clicks"`
	TotalSaves   int64   `json:"total_saves"`
	TotalShares  int64   `json:"total_shares"`
	OverallCTR   float64 `json:"overall_ctr"`
}

// TopPerformers holds the four top-5 rankings.
type TopPerformers struct {
	MostViewed  []MessageStats `json:"most_viewed"`
	MostClicked []MessageStats `json:"most_clicked"`
	MostSaved   []MessageStats `json:"most_saved"`
	BestCTR     []MessageStats `json:"best_ctr"`
}

// GroupStats is one store/category rollup bucket.
type GroupStats struct {
	Messages int     `json:"messages"`
	Views    int64   `json:"views"`
	Clicks   int64   `json:"clicks"`
	Saves    int64   `json:"saves"`
	Shares   int64   `json:"shares"`
	CTR      float64 `json:"ctr"`
}

// DayStats is one calendar-day bucket of the time series.
type DayStats struct {
	Date     string `json:"date"`
	Messages int    `json:"messages"`
	Views    int64  `json:"views"`
	Clicks   int64  `json:"clicks"`
}

// Segmentation groups the filtered set by store, category and day.
type Segmentation struct {
	ByStore    map[string]*GroupStats `json:"by_store"`
	ByCategory map[string]*GroupStats `json:"by_category"`
	ByDay      []DayStats             `json:"by_day"`
}

// Report is the full analytics payload.
type Report struct {
	Timeframe     string         `json:"timeframe"`
	Summary       Summary        `json:"summary"`
	TopPerformers TopPerformers  `json:"top_performers"`
	Segmentation  Segmentation   `json:"segmentation"`
	Messages      []MessageStats `json:"messages"`
}

// Aggregator runs analytics queries against storage.
type Aggregator struct {
	Storage storage.Storage
}

func NewAggregator(s storage.Storage) *Aggregator {
	return &Aggregator{Storage: s}
}

// Run validates params, fetches the message page and folds the report.
// Validation failures come back as the string slice with a nil report.
func (a *Aggregator) Run(p Params, now time.Time) (*Report, []string, error) {
	p.Normalize()
	if errs := p.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	start, end := p.Window(now)
	msgs, err := a.Storage.QueryMessages(storage.MessageQuery{
		Start:    start,
		End:      end,
		Store:    p.Store,
		Category: p.Category,
		Limit:    p.Limit,
	})
	if err != nil {
		return nil, nil, err
	}

	return BuildReport(msgs, p), nil, nil
}

// BuildReport folds the fetched page into the full report. Pure; the tag
// filter is applied here because tag membership is many-to-many and not a
// single-column query filter.
func BuildReport(msgs []models.Message, p Params) *Report {
	if p.Tag != "" {
		msgs = filterByTag(msgs, p.Tag)
	}

	stats := make([]MessageStats, 0, len(msgs))
	for _, m := range msgs {
		stats = append(stats, messageStats(m))
	}

	report := &Report{
		Timeframe: p.Timeframe,
		Messages:  stats,
	}

	for _, s := range stats {
		report.Summary.MessageCount++
		report.Summary.TotalViews += s.Views
		report.Summary.TotalClicks += s.Clicks
		report.Summary.TotalSaves += s.Saves
		report.Summary.TotalShares += s.Shares
	}
	report.Summary.OverallCTR = ctr(report.Summary.TotalClicks, report.Summary.TotalViews)

	report.TopPerformers = TopPerformers{
		MostViewed:  topBy(stats, func(s MessageStats) float64 { return float64(s.Views) }, nil),
		MostClicked: topBy(stats, func(s MessageStats) float64 { return float64(s.Clicks) }, nil),
		MostSaved:   topBy(stats, func(s MessageStats) float64 { return float64(s.Saves) }, nil),
		BestCTR: topBy(stats,
			func(s MessageStats) float64 { return s.CTR },
			func(s MessageStats) bool { return s.Views >= minViewsForCTR }),
	}

	report.Segmentation = segment(stats)
	return report
}

func messageStats(m models.Message) MessageStats {
	s := MessageStats{
		MessageID: m.MessageID,
		Title:     m.Title,
		Price:     m.Price,
		Store:     m.Store,
		Category:  m.Category,
		PostedAt:  m.PostedAt,
	}
	for _, t := range m.Tags {
		s.Tags = append(s.Tags, t.Tag)
	}
	if m.Engagement != nil {
		s.Views = m.Engagement.ViewCount
		s.Clicks = m.Engagement.ClickCount
		s.Saves = m.Engagement.SaveCount
		s.Shares = m.Engagement.ShareCount
	}
	s.TotalEngagement = s.Views + s.Clicks + s.Saves + s.Shares
	s.CTR = ctr(s.Clicks, s.Views)
	return s
}

// filterByTag keeps messages carrying the tag, case-insensitive exact match
// against any of the message's tags.
func filterByTag(msgs []models.Message, tag string) []models.Message {
	want := strings.ToLower(strings.TrimSpace(tag))
	var out []models.Message
	for _, m := range msgs {
		for _, t := range m.Tags {
			if strings.ToLower(t.Tag) == want {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// topBy returns the top 5 by metric, descending, ties kept in input order.
func topBy(stats []MessageStats, metric func(MessageStats) float64, keep func(MessageStats) bool) []MessageStats {
	var eligible []MessageStats
	for _, s := range stats {
		if keep == nil || keep(s) {
			eligible = append(eligible, s)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return metric(eligible[i]) > metric(eligible[j])
	})
	if len(eligible) > topN {
		eligible = eligible[:topN]
	}
	return eligible
}

func segment(stats []MessageStats) Segmentation {
	seg := Segmentation{
		ByStore:    make(map[string]*GroupStats),
		ByCategory: make(map[string]*GroupStats),
	}

	days := make(map[string]*DayStats)
	for _, s := range stats {
		if s.Store != "" {
			addToGroup(seg.ByStore, s.Store, s)
		}
		addToGroup(seg.ByCategory, s.Category, s)

		date := s.PostedAt.UTC().Format(dateLayout)
		d, ok := days[date]
		if !ok {
			d = &DayStats{Date: date}
			days[date] = d
		}
		d.Messages++
		d.Views += s.Views
		d.Clicks += s.Clicks
	}

	for _, g := range seg.ByStore {
		g.CTR = ctr(g.Clicks, g.Views)
	}
	for _, g := range seg.ByCategory {
		g.CTR = ctr(g.Clicks, g.Views)
	}

	for _, d := range days {
		seg.ByDay = append(seg.ByDay, *d)
	}
	sort.Slice(seg.ByDay, func(i, j int) bool {
		return seg.ByDay[i].Date < seg.ByDay[j].Date
	})
	return seg
}

func addToGroup(groups map[string]*GroupStats, key string, s MessageStats) {
	g, ok := groups[key]
	if !ok {
		g = &GroupStats{}
		groups[key] = g
	}
	g.Messages++
	g.Views += s.Views
	g.Clicks += s.Clicks
	g.Saves += s.Saves
	g.Shares += s.Shares
}

// ctr is clicks/views*100 rounded to two decimals, 0 for zero views.
func ctr(clicks, views int64) float64 {
	if views == 0 {
		return 0
	}
	return math.Round(float64(clicks)/float64(views)*100*100) / 100
}
