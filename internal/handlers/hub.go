package handlers

import (
	"sync"

	"tank_control/internal/models"
	"tank_control/internal/service"
)

// clientBuffer bounds the per-connection backlog. A consumer that cannot
// keep up loses intermediate snapshots, never the newest one for long.
const clientBuffer = 8

// Hub fans published system states out to WebSocket subscribers. The
// control loop publishes through service.Recorder, which calls
// BroadcastState here.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan models.SystemState]struct{}
}

var _ service.Broadcaster = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{clients: map[chan models.SystemState]struct{}{}}
}

// BroadcastState delivers a snapshot to every subscriber without blocking:
// a full client channel drops this update for that client.
func (h *Hub) BroadcastState(state models.SystemState) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- state:
		default:
		}
	}
}

func (h *Hub) subscribe() chan models.SystemState {
	ch := make(chan models.SystemState, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan models.SystemState) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// Subscribers reports the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
