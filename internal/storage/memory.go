package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"dealshub/backend/internal/models"
)

// Memory is an in-memory Storage used by tests and local development.
// It mirrors the PostgreSQL semantics that matter: idempotent message
// inserts, atomic counter increments and set-style tags.
type Memory struct {
	mu       sync.Mutex
	nextID   uint
	messages map[int64]*models.Message
	engs     map[int64]*models.Engagement
	tags     map[int64]map[string]bool
	checks   []models.HealthCheck
	runs     []models.BotRun

	// Published collects PublishDeal calls for assertions.
	Published []models.Message
}

func NewMemory() *Memory {
	return &Memory{
		messages: make(map[int64]*models.Message),
		engs:     make(map[int64]*models.Engagement),
		tags:     make(map[int64]map[string]bool),
	}
}

func (m *Memory) InsertMessage(msg *models.Message) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[msg.MessageID]; ok {
		return false, nil
	}
	m.nextID++
	msg.ID = m.nextID
	msg.CreatedAt = time.Now().UTC()
	cp := *msg
	m.messages[msg.MessageID] = &cp
	return true, nil
}

func (m *Memory) UpdatePhotoURL(messageID int64, photoURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[messageID]; ok {
		msg.PhotoURL = photoURL
	}
	return nil
}

func (m *Memory) GetMessageByMessageID(messageID int64) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[messageID]
	if !ok {
		return nil, ErrMessageNotFound
	}
	cp := *msg
	if eng, ok := m.engs[messageID]; ok {
		e := *eng
		cp.Engagement = &e
	}
	for tag := range m.tags[messageID] {
		cp.Tags = append(cp.Tags, models.MessageTag{MessageID: messageID, Tag: tag})
	}
	return &cp, nil
}

func (m *Memory) QueryMessages(q MessageQuery) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Message
	for _, msg := range m.messages {
		if q.Start != nil && msg.PostedAt.Before(*q.Start) {
			continue
		}
		if q.End != nil && msg.PostedAt.After(*q.End) {
			continue
		}
		if q.Store != "" && msg.Store != q.Store {
			continue
		}
		if q.Category != "" && msg.Category != q.Category {
			continue
		}
		cp := *msg
		if eng, ok := m.engs[msg.MessageID]; ok {
			e := *eng
			cp.Engagement = &e
		}
		for tag := range m.tags[msg.MessageID] {
			cp.Tags = append(cp.Tags, models.MessageTag{MessageID: msg.MessageID, Tag: tag})
		}
		out = append(out, cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *Memory) ListMessages(q ListQuery) ([]models.Message, error) {
	msgs, err := m.QueryMessages(MessageQuery{Store: q.Store, Category: q.Category})
	if err != nil {
		return nil, err
	}
	if q.Sort == "views" {
		sort.SliceStable(msgs, func(i, j int) bool {
			var vi, vj int64
			if msgs[i].Engagement != nil {
				vi = msgs[i].Engagement.ViewCount
			}
			if msgs[j].Engagement != nil {
				vj = msgs[j].Engagement.ViewCount
			}
			return vi > vj
		})
	}
	if q.Offset > 0 {
		if q.Offset >= len(msgs) {
			return nil, nil
		}
		msgs = msgs[q.Offset:]
	}
	if q.Limit > 0 && len(msgs) > q.Limit {
		msgs = msgs[:q.Limit]
	}
	return msgs, nil
}

func (m *Memory) CountMessagesSince(since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.messages {
		if !msg.PostedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) IncrementEngagement(messageID int64, action string, now time.Time) (*models.Engagement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	eng, ok := m.engs[messageID]
	if !ok {
		eng = &models.Engagement{MessageID: messageID}
		m.engs[messageID] = eng
	}
	switch action {
	case models.ActionView:
		eng.ViewCount++
		eng.LastViewedAt = &now
	case models.ActionClick:
		eng.ClickCount++
		eng.LastClickedAt = &now
	case models.ActionSave:
		eng.SaveCount++
	case models.ActionShare:
		eng.ShareCount++
	}
	cp := *eng
	return &cp, nil
}

func (m *Memory) UpsertTag(messageID int64, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil
	}
	if m.tags[messageID] == nil {
		m.tags[messageID] = make(map[string]bool)
	}
	m.tags[messageID][tag] = true
	return nil
}

func (m *Memory) DeleteTag(messageID int64, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tags[messageID], strings.ToLower(strings.TrimSpace(tag)))
	return nil
}

func (m *Memory) SaveHealthCheck(hc *models.HealthCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	hc.CreatedAt = time.Now().UTC()
	m.checks = append(m.checks, *hc)
	return nil
}

func (m *Memory) LatestHealthCheck() (*models.HealthCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.checks) == 0 {
		return nil, nil
	}
	cp := m.checks[len(m.checks)-1]
	return &cp, nil
}

func (m *Memory) SaveBotRun(run *models.BotRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *Memory) PublishDeal(msg models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, msg)
	return nil
}

func (m *Memory) Ping() error { return nil }

func (m *Memory) Reconnect() error { return nil }
