// Package notify pushes validation verdicts to websocket clients waiting on
// a complaint. Verdicts arrive through Redis Pub/Sub so that any API replica
// can serve the websocket.
package notify

import (
	"context"
	"encoding/json"
	"guardaazul/backend/internal/models"
	"log"

	"github.com/redis/go-redis/v9"
)

// Hub tracks the clients waiting on each complaint.
type Hub struct {
	clients map[uint]map[*Client]bool

	RegisterCh   chan *Client
	UnregisterCh chan *Client
	EventsCh     chan models.VerdictEvent

	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:      make(map[uint]map[*Client]bool),
		RegisterCh:   make(chan *Client),
		UnregisterCh: make(chan *Client),
		EventsCh:     make(chan models.VerdictEvent, 64),
		done:         make(chan struct{}),
	}
}

// Register adds c to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.RegisterCh <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.UnregisterCh <- c:
	case <-h.done:
	}
}

// Push queues an event for delivery. It reports false once the hub has stopped.
func (h *Hub) Push(ev models.VerdictEvent) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.EventsCh <- ev:
		return true
	case <-h.done:
		return false
	}
}

// Run serves registrations and events until ctx is done. A hub runs once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.Send)
				}
			}
			h.clients = make(map[uint]map[*Client]bool)
			return

		case c := <-h.RegisterCh:
			set, ok := h.clients[c.ComplaintID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[c.ComplaintID] = set
			}
			set[c] = true

		case c := <-h.UnregisterCh:
			h.remove(c)

		case ev := <-h.EventsCh:
			for c := range h.clients[ev.ComplaintID] {
				select {
				case c.Send <- ev:
				default:
					// slow client
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.ComplaintID]
	if !ok || !set[c] {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.ComplaintID)
	}
}

// Listen forwards verdicts published on the Redis subscription to the hub.
// It returns when the subscription or ctx is closed.
func (h *Hub) Listen(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			ev, err := decodeEvent(msg.Payload)
			if err != nil {
				log.Printf("WARNING: Dropping malformed verdict event: %v", err)
				continue
			}
			select {
			case h.EventsCh <- ev:
			case <-ctx.Done():
				return
			case <-h.done:
				return
			}
		}
	}
}

func decodeEvent(payload string) (models.VerdictEvent, error) {
	var ev models.VerdictEvent
	err := json.Unmarshal([]byte(payload), &ev)
	return ev, err
}
