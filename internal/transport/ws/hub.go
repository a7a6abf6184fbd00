package ws

import (
	"sync"
)

type Conn interface {
	Send(msg Message) error
	Close() error
	UserID() string
}

// Hub — процесс-локальный реестр комнат: roomID -> множество соединений
// и обратный индекс conn -> комнаты. Join/Leave идемпотентны.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]struct{}
	conns map[Conn]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Conn]struct{}),
		conns: make(map[Conn]map[string]struct{}),
	}
}

func (h *Hub) Join(c Conn, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, ok := h.rooms[roomID]
	if !ok {
		rs = make(map[Conn]struct{})
		h.rooms[roomID] = rs
	}
	rs[c] = struct{}{}

	cs, ok := h.conns[c]
	if !ok {
		cs = make(map[string]struct{})
		h.conns[c] = cs
	}
	cs[roomID] = struct{}{}
}

func (h *Hub) Leave(c Conn, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(c, roomID)
}

// LeaveAll снимает соединение со всех комнат (на disconnect)
func (h *Hub) LeaveAll(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID := range h.conns[c] {
		h.leaveLocked(c, roomID)
	}
	delete(h.conns, c)
}

func (h *Hub) leaveLocked(c Conn, roomID string) {
	if rs, ok := h.rooms[roomID]; ok {
		delete(rs, c)
		if len(rs) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if cs, ok := h.conns[c]; ok {
		delete(cs, roomID)
		if len(cs) == 0 {
			delete(h.conns, c)
		}
	}
}

func (h *Hub) IsSubscribed(c Conn, roomID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.conns[c][roomID]
	return ok
}

// Broadcast доставляет только тем, кто подписан на момент вызова;
// буферизации для опоздавших нет.
func (h *Hub) Broadcast(roomID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if rs, ok := h.rooms[roomID]; ok {
		for c := range rs {
			_ = c.Send(msg) // best-effort
		}
	}
}
