// Package realtime pushes task change events to connected WebSocket
// clients. Events are delivered per user: a client only ever sees
// changes to its own task list. When Redis is configured the hub also
// bridges events across server instances over pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/cache"
	"github.com/taskhive/taskhive/internal/task"
)

// EventType names the task change that happened.
type EventType string

const (
	EventCreated   EventType = "task.created"
	EventUpdated   EventType = "task.updated"
	EventDeleted   EventType = "task.deleted"
	EventReordered EventType = "tasks.reordered"
)

// Event is one task change pushed to clients. Task is set for created
// and updated events, TaskID for deletes; reorder events carry neither
// and signal the client to refetch.
type Event struct {
	Type   EventType  `json:"type"`
	Task   *task.Task `json:"task,omitempty"`
	TaskID *uuid.UUID `json:"task_id,omitempty"`
	At     time.Time  `json:"at"`
}

// envelope wraps an event on the pub/sub wire. Origin identifies the
// publishing instance so it can skip its own echoes.
type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

type broadcast struct {
	userID  uuid.UUID
	payload []byte
}

// Hub tracks connected clients and routes events to them.
type Hub struct {
	id        string
	cache     *cache.Cache
	logger    *slog.Logger
	clients   map[uuid.UUID]map[*client]struct{}
	register  chan *client
	unregister chan *client
	broadcasts chan broadcast

	// done is closed when Run exits so connection goroutines stop
	// waiting on the registry channels.
	done chan struct{}
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(c *cache.Cache, logger *slog.Logger) *Hub {
	return &Hub{
		id:         uuid.NewString(),
		cache:      c,
		logger:     logger,
		clients:    make(map[uuid.UUID]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcasts: make(chan broadcast, 64),
		done:       make(chan struct{}),
	}
}

// Run owns the client registry. It exits when ctx is cancelled, closing
// every client connection.
func (h *Hub) Run(ctx context.Context) {
	remote := h.cache.Subscribe(ctx)

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for _, conns := range h.clients {
				for c := range conns {
					close(c.send)
				}
			}
			return

		case c := <-h.register:
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
			h.logger.Debug("client connected", "user_id", c.userID, "connections", len(h.clients[c.userID]))

		case c := <-h.unregister:
			if conns, ok := h.clients[c.userID]; ok {
				if _, ok := conns[c]; ok {
					delete(conns, c)
					close(c.send)
					if len(conns) == 0 {
						delete(h.clients, c.userID)
					}
				}
			}

		case b := <-h.broadcasts:
			h.deliver(b.userID, b.payload)

		case msg, ok := <-remote:
			if !ok {
				remote = nil
				continue
			}
			var env envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				h.logger.Warn("bad remote event", "error", err)
				continue
			}
			if env.Origin == h.id {
				continue
			}
			payload, err := json.Marshal(env.Event)
			if err != nil {
				continue
			}
			h.deliver(msg.UserID, payload)
		}
	}
}

// Broadcast sends an event to every connection the user has, on this
// instance directly and on other instances via pub/sub.
func (h *Hub) Broadcast(ctx context.Context, userID uuid.UUID, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("event marshal failed", "error", err)
		return
	}

	select {
	case h.broadcasts <- broadcast{userID: userID, payload: payload}:
	default:
		h.logger.Warn("broadcast queue full, dropping event", "type", event.Type)
	}

	wire, err := json.Marshal(envelope{Origin: h.id, Event: event})
	if err != nil {
		return
	}
	h.cache.Publish(ctx, userID, wire)
}

// deliver fans a payload out to the user's local connections. A client
// that cannot keep up is disconnected rather than allowed to block the
// hub.
func (h *Hub) deliver(userID uuid.UUID, payload []byte) {
	for c := range h.clients[userID] {
		select {
		case c.send <- payload:
		default:
			delete(h.clients[userID], c)
			close(c.send)
		}
	}
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}
