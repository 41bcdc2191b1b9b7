// Package livefeed pushes newly ingested deals to websocket subscribers.
// Ingestion publishes each deal to Redis; the hub fans one subscription out
// to every connected client, so multiple server instances share one stream.
package livefeed

import (
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dealshub/backend/internal/models"
)

// DealSubscriber is the slice of storage the hub needs: one open pub/sub
// subscription on the deals channel.
type DealSubscriber interface {
	SubscribeDeals() *redis.PubSub
}

// Hub owns the subscriber set. All membership changes go through the
// register/unregister channels so only the Run goroutine touches the map.
type Hub struct {
	clients map[*Client]bool

	RegisterCh   chan *Client
	UnregisterCh chan *Client
	BroadcastCh  chan models.Message

	subscriber DealSubscriber
	logger     *zap.Logger
}

func NewHub(subscriber DealSubscriber, logger *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		RegisterCh:   make(chan *Client),
		UnregisterCh: make(chan *Client),
		BroadcastCh:  make(chan models.Message, 16),
		subscriber:   subscriber,
		logger:       logger,
	}
}

// Run is the hub's dispatcher loop. Start it in its own goroutine.
func (h *Hub) Run() {
	h.startPubSubListener()

	for {
		select {
		case c := <-h.RegisterCh:
			h.clients[c] = true
			h.logger.Debug("Live feed client connected", zap.Int("clients", len(h.clients)))

		case c := <-h.UnregisterCh:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.Send)
			}

		case msg := <-h.BroadcastCh:
			for c := range h.clients {
				select {
				case c.Send <- msg:
				default:
					// Slow client: drop it rather than block the hub.
					delete(h.clients, c)
					close(c.Send)
				}
			}
		}
	}
}

// startPubSubListener forwards Redis deal events into the broadcast channel.
func (h *Hub) startPubSubListener() {
	if h.subscriber == nil {
		return
	}
	pubsub := h.subscriber.SubscribeDeals()
	if pubsub == nil {
		return
	}

	go func() {
		defer pubsub.Close()
		for m := range pubsub.Channel() {
			var msg models.Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				h.logger.Warn("Bad deal event payload", zap.Error(err))
				continue
			}
			h.BroadcastCh <- msg
		}
	}()
}
