package network

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-airsim/pkg/engine"
	"github.com/opd-ai/go-airsim/pkg/event"
)

func TestTelemetryHub_BroadcastsFrames(t *testing.T) {
	sim := engine.NewSimulation(nil, event.NewEventBus(), 1.0/60.0)
	hub := NewTelemetryHub(sim)
	hub.Start(context.Background())
	defer hub.Stop()

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	if !waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 }) {
		t.Fatalf("client never registered, count = %d", hub.ClientCount())
	}

	// Frames flow only when the simulation steps.
	for i := 0; i < 5; i++ {
		sim.Step()
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame failed: %v", err)
	}

	var frame wsFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("bad frame payload: %v", err)
	}
	if frame.Tick == 0 {
		t.Error("expected nonzero tick in broadcast frame")
	}
	if frame.State.Altitude == 0 {
		t.Error("expected aircraft altitude in broadcast frame")
	}
}

func TestTelemetryHub_RemovesClosedClients(t *testing.T) {
	sim := engine.NewSimulation(nil, event.NewEventBus(), 1.0/60.0)
	hub := NewTelemetryHub(sim)
	hub.Start(context.Background())
	defer hub.Stop()

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}

	if !waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 }) {
		t.Fatalf("client never registered")
	}

	conn.Close()

	if !waitFor(t, time.Second, func() bool { return hub.ClientCount() == 0 }) {
		t.Errorf("expected closed client to be removed, count = %d", hub.ClientCount())
	}
}
