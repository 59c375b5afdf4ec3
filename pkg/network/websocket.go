// pkg/network/websocket.go
package network

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-airsim/pkg/engine"
	"github.com/opd-ai/go-airsim/pkg/entity"
	"github.com/opd-ai/go-airsim/pkg/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsFrame is the JSON payload pushed to websocket subscribers each
// simulation step.
type wsFrame struct {
	Tick    uint64               `json:"tick"`
	Elapsed float64              `json:"elapsed"`
	State   entity.AircraftState `json:"state"`
}

// TelemetryHub fans simulation snapshots out to websocket clients.
// Browsers can watch a live flight without speaking the framed TCP
// protocol. Slow clients are dropped rather than allowed to back up
// the broadcast loop.
type TelemetryHub struct {
	sim    *engine.Simulation
	logger *logging.Logger

	clients map[*websocket.Conn]bool
	mu      sync.Mutex

	cancel context.CancelFunc
}

// NewTelemetryHub creates a hub broadcasting snapshots from sim.
func NewTelemetryHub(sim *engine.Simulation) *TelemetryHub {
	return &TelemetryHub{
		sim:     sim,
		logger:  logging.NewLogger(),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Start begins forwarding simulation snapshots to connected clients.
// It returns immediately; the broadcast loop runs until Stop or until
// ctx is cancelled.
func (h *TelemetryHub) Start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)
	frames, unsubscribe := h.sim.Subscribe()

	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case st, ok := <-frames:
				if !ok {
					return
				}
				h.broadcast(wsFrame{
					Tick:    h.sim.Tick(),
					Elapsed: h.sim.Elapsed(),
					State:   st,
				})
			}
		}
	}()
}

// Stop halts the broadcast loop and closes all client connections.
func (h *TelemetryHub) Stop() {
	if h.cancel != nil {
		h.cancel()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// Handler returns the HTTP handler that upgrades requests to
// websocket connections and registers them for telemetry frames.
func (h *TelemetryHub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn(r.Context(), "websocket upgrade failed", "error", err.Error())
			return
		}

		h.mu.Lock()
		h.clients[conn] = true
		count := len(h.clients)
		h.mu.Unlock()

		h.logger.Info(r.Context(), "websocket client connected",
			"remote_addr", conn.RemoteAddr().String(),
			"clients", count,
		)

		// Drain incoming messages so pings and close frames are
		// processed; the feed itself is one-way.
		go func() {
			defer h.remove(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})
}

// ClientCount returns the number of connected websocket clients.
func (h *TelemetryHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *TelemetryHub) broadcast(frame wsFrame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(frame); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *TelemetryHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		conn.Close()
		delete(h.clients, conn)
	}
}
