// Package realtime implements the websocket change feed. Services
// publish a ChangeEvent after every successful write; every client
// subscribed to the affected team's room receives it and is expected
// to refetch. Events carry no payload versioning and no replay: a
// client that misses one simply refetches on the next.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/tacticalsync/tacticalsync/internal/logger"
)

// ChangeEvent describes one committed write.
type ChangeEvent struct {
	Entity     string `json:"entity"`
	Action     string `json:"action"` // created | updated | deleted | reordered
	TeamID     int64  `json:"team_id"`
	SeriesID   int64  `json:"series_id,omitempty"`
	InstanceID int64  `json:"instance_id,omitempty"`
	ItemID     int64  `json:"item_id,omitempty"`
	ActorID    int64  `json:"actor_id,omitempty"`
}

// Hub maintains the set of active clients grouped into per-team rooms
// and fans change events out to them.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	events     chan ChangeEvent

	mu    sync.RWMutex
	rooms map[int64]map[*Client]bool

	log *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan ChangeEvent, 64),
		rooms:      make(map[int64]map[*Client]bool),
		log:        log,
	}
}

// Run processes registrations and event fan-out until the process
// exits. Start it once from main.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			room := h.rooms[c.teamID]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[c.teamID] = room
			}
			room[c] = true
			h.mu.Unlock()
			h.log.Debug("client joined room", "team_id", c.teamID, "user_id", c.userID)

		case c := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[c.teamID]; ok {
				if room[c] {
					delete(room, c)
					close(c.send)
				}
				if len(room) == 0 {
					delete(h.rooms, c.teamID)
				}
			}
			h.mu.Unlock()

		case ev := <-h.events:
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for c := range h.rooms[ev.TeamID] {
				select {
				case c.send <- payload:
				default:
					// Slow consumer; it will refetch on reconnect.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish queues a change event for fan-out. Never blocks the writer
// path: if the hub's buffer is full the event is dropped.
func (h *Hub) Publish(ev ChangeEvent) {
	select {
	case h.events <- ev:
	default:
		h.log.Warn("change event dropped", "entity", ev.Entity, "team_id", ev.TeamID)
	}
}
