package broadcast

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one frame on the realtime channel.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Broadcaster is the fan-out surface the domain services depend on.
// Delivery is best effort: no acks, no replay, disconnected clients
// just miss updates until they reconnect and refetch.
type Broadcaster interface {
	Emit(event string, data any)
	EmitRoom(room, event string, data any)
}

// Session wraps one websocket connection. gorilla/websocket allows only
// one concurrent writer, so every write goes through the session mutex.
type Session struct {
	conn  *websocket.Conn
	mu    sync.Mutex
	rooms map[string]struct{}
}

func (s *Session) send(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(ev)
}

// Hub holds connected client sessions and their room memberships.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{sessions: make(map[string]*Session), logger: logger}
}

func (h *Hub) Add(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[id] = &Session{conn: conn, rooms: make(map[string]struct{})}
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		_ = s.conn.Close()
		delete(h.sessions, id)
	}
}

// Join puts a session into a room. Sessions stay in every room they
// joined until disconnect; rooms are cheap labels, not resources.
func (h *Hub) Join(id, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		s.rooms[room] = struct{}{}
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Emit sends the event to every connected session, dropping sessions
// whose writes fail.
func (h *Hub) Emit(event string, data any) {
	h.emit(event, data, func(*Session) bool { return true })
}

// EmitRoom sends the event only to sessions that joined the room.
func (h *Hub) EmitRoom(room, event string, data any) {
	h.emit(event, data, func(s *Session) bool {
		_, ok := s.rooms[room]
		return ok
	})
}

func (h *Hub) emit(event string, data any, match func(*Session) bool) {
	ev := Event{Event: event, Data: data}

	h.mu.RLock()
	targets := make(map[string]*Session, len(h.sessions))
	for id, s := range h.sessions {
		if match(s) {
			targets[id] = s
		}
	}
	h.mu.RUnlock()

	var dead []string
	for id, s := range targets {
		if err := s.send(ev); err != nil {
			h.logger.Warn("ws send failed, dropping session", "session_id", id, "error", err)
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		h.Remove(id)
	}
}

// Nop is a Broadcaster that discards everything; handy for tests and
// for services wired without a realtime channel.
type Nop struct{}

func (Nop) Emit(string, any)             {}
func (Nop) EmitRoom(string, string, any) {}
