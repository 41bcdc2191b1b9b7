package livefeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"dealshub/backend/internal/models"
)

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	go hub.Run()

	a := &Client{Hub: hub, Send: make(chan models.Message, 4)}
	b := &Client{Hub: hub, Send: make(chan models.Message, 4)}
	hub.RegisterCh <- a
	hub.RegisterCh <- b

	hub.BroadcastCh <- models.Message{MessageID: 1, Title: "deal"}

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			assert.Equal(t, int64(1), msg.MessageID)
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	go hub.Run()

	c := &Client{Hub: hub, Send: make(chan models.Message, 4)}
	hub.RegisterCh <- c
	hub.UnregisterCh <- c

	hub.BroadcastCh <- models.Message{MessageID: 2}
	time.Sleep(50 * time.Millisecond)

	// The hub closed the channel on unregister; nothing was delivered.
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	go hub.Run()

	slow := &Client{Hub: hub, Send: make(chan models.Message)} // unbuffered, never read
	hub.RegisterCh <- slow

	hub.BroadcastCh <- models.Message{MessageID: 3}
	time.Sleep(50 * time.Millisecond)

	_, open := <-slow.Send
	assert.False(t, open)
}
