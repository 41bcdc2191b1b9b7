// Package engagement provides the core logic for recording deal engagement
// events: view, click, save and share counters per message.
package engagement

import (
	"errors"
	"fmt"
	"time"

	"dealshub/backend/internal/models"
	"dealshub/backend/internal/storage"
)

// ErrInvalidParams covers missing message IDs or actions.
var ErrInvalidParams = errors.New("invalid parameters: messageId and action are required")

// ErrInvalidAction rejects actions outside view/click/save/share.
var ErrInvalidAction = errors.New("invalid action: must be one of view, click, save, share")

// Tracker handles the business logic for engagement events.
type Tracker struct {
	Storage storage.Storage
}

// NewTracker creates a new engagement tracker. A nil storage puts the
// tracker in dev fallback mode: Track reports success without side effects.
func NewTracker(s storage.Storage) *Tracker {
	return &Tracker{Storage: s}
}

// Result is one tracked event's outcome.
type Result struct {
	MessageID  int64              `json:"message_id"`
	Action     string             `json:"action"`
	Engagement *models.Engagement `json:"engagement,omitempty"`
	// Mocked marks the no-storage dev fallback.
	Mocked bool `json:"mocked,omitempty"`
}

// Track records one engagement event. Unknown actions and missing IDs fail
// validation; an unknown message surfaces storage.ErrMessageNotFound. The
// increment itself is atomic, N concurrent events always count N.
func (t *Tracker) Track(messageID int64, action string) (*Result, error) {
	if messageID == 0 || action == "" {
		return nil, ErrInvalidParams
	}
	if !models.ValidAction(action) {
		return nil, fmt.Errorf("%w; got %q", ErrInvalidAction, action)
	}

	if t.Storage == nil {
		return &Result{MessageID: messageID, Action: action, Mocked: true}, nil
	}

	if _, err := t.Storage.GetMessageByMessageID(messageID); err != nil {
		return nil, err
	}

	eng, err := t.Storage.IncrementEngagement(messageID, action, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return &Result{MessageID: messageID, Action: action, Engagement: eng}, nil
}
