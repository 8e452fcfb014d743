package handlers

import (
	"log"
	"sync"
)

// staffConn is the slice of a websocket connection the registry needs.
// *websocket.Conn satisfies it; tests plug in fakes.
type staffConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Registry owns the staffId -> live connection mapping used for in-app
// push. One connection per staff member: a newer session replaces (and
// closes) the previous one. Delivery is fire-and-forget; there is no queue
// for offline staff, callers fall back to email instead.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]staffConn
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]staffConn)}
}

// Register associates a staff id with a live connection, replacing any
// previous session.
func (reg *Registry) Register(staffID string, conn staffConn) {
	reg.mu.Lock()
	old := reg.conns[staffID]
	reg.conns[staffID] = conn
	reg.mu.Unlock()

	if old != nil && old != conn {
		_ = old.Close()
	}
	log.Printf("[SOCKET] staff %s connected", staffID)
}

// Unregister drops the registry entry holding conn, if any.
func (reg *Registry) Unregister(conn staffConn) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for staffID, c := range reg.conns {
		if c == conn {
			delete(reg.conns, staffID)
			log.Printf("[SOCKET] staff %s disconnected", staffID)
			return
		}
	}
}

// SendTo pushes a payload to the staff member's connection. It reports
// false when the staff member has no session or the write fails; a failed
// connection is dropped so the next delivery goes straight to fallback.
func (reg *Registry) SendTo(staffID string, payload interface{}) bool {
	reg.mu.RLock()
	conn := reg.conns[staffID]
	reg.mu.RUnlock()

	if conn == nil {
		return false
	}
	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("[SOCKET] push to staff %s failed: %v", staffID, err)
		reg.Unregister(conn)
		_ = conn.Close()
		return false
	}
	return true
}

// Connected reports whether the staff member currently has a session.
func (reg *Registry) Connected(staffID string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.conns[staffID] != nil
}

// Count returns the number of live sessions, for the health endpoint.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.conns)
}
