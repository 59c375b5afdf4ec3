// pkg/network/server.go
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opd-ai/go-airsim/pkg/engine"
	"github.com/opd-ai/go-airsim/pkg/logging"
	"github.com/opd-ai/go-airsim/pkg/validation"
)

// TelemetryServer streams aircraft state snapshots to connected
// clients over TCP and forwards validated control inputs to the
// engine. The engine remains the single writer of aircraft state;
// the server only latches inputs through Simulation.SetInput.
type TelemetryServer struct {
	listener    net.Listener
	sim         *engine.Simulation
	clients     map[string]*Client
	clientsLock sync.RWMutex
	running     bool
	runningLock sync.Mutex
	updateRate  time.Duration
	maxClients  int
	validator   *validation.MessageValidator
	logger      *logging.Logger
}

// Client represents a connected telemetry client
type Client struct {
	ID        string
	Name      string
	Conn      net.Conn
	Connected bool
	LastInput time.Time
}

// NewTelemetryServer creates a telemetry server for the given
// simulation. updatesPerSecond controls the snapshot stream rate.
func NewTelemetryServer(sim *engine.Simulation, maxClients, updatesPerSecond int) *TelemetryServer {
	if updatesPerSecond <= 0 {
		updatesPerSecond = 20
	}
	return &TelemetryServer{
		sim:        sim,
		clients:    make(map[string]*Client),
		updateRate: time.Second / time.Duration(updatesPerSecond),
		maxClients: maxClients,
		validator:  validation.NewMessageValidator(),
		logger:     logging.NewLogger(),
	}
}

// Start listens on the given address and begins accepting clients and
// broadcasting telemetry.
func (s *TelemetryServer) Start(address string) error {
	var err error
	s.listener, err = net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start telemetry server: %w", err)
	}

	s.runningLock.Lock()
	s.running = true
	s.runningLock.Unlock()

	go s.acceptConnections()
	go s.broadcastLoop()

	s.logger.Info(context.Background(), "telemetry server started", "address", address)
	return nil
}

// Stop closes all client connections and the listener.
func (s *TelemetryServer) Stop() {
	s.runningLock.Lock()
	s.running = false
	s.runningLock.Unlock()

	s.clientsLock.Lock()
	for _, client := range s.clients {
		client.Conn.Close()
	}
	s.clients = make(map[string]*Client)
	s.clientsLock.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.validator.Close()

	s.logger.Info(context.Background(), "telemetry server stopped")
}

// Addr returns the bound listener address, or "" before Start.
func (s *TelemetryServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ClientCount returns the number of connected clients.
func (s *TelemetryServer) ClientCount() int {
	s.clientsLock.RLock()
	defer s.clientsLock.RUnlock()
	return len(s.clients)
}

func (s *TelemetryServer) isRunning() bool {
	s.runningLock.Lock()
	defer s.runningLock.Unlock()
	return s.running
}

func (s *TelemetryServer) acceptConnections() {
	for s.isRunning() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isRunning() {
				s.logger.Error(context.Background(), "error accepting connection", err)
			}
			continue
		}

		s.clientsLock.RLock()
		full := len(s.clients) >= s.maxClients
		s.clientsLock.RUnlock()

		if full {
			sendMessage(conn, ConnectResponse, ConnectResponseData{
				Success: false,
				Error:   "server full",
			})
			conn.Close()
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection performs the handshake and then reads control
// messages until the client disconnects.
func (s *TelemetryServer) handleConnection(conn net.Conn) {
	defer conn.Close()

	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())

	msgType, data, err := readMessage(conn)
	if err != nil {
		s.logger.Error(ctx, "error reading connect request", err)
		return
	}
	if msgType != ConnectRequest {
		s.logger.Warn(ctx, "expected connect request", "got", msgType)
		return
	}

	var req ConnectRequestData
	if err := json.Unmarshal(data, &req); err != nil {
		s.logger.Error(ctx, "error parsing connect request", err)
		return
	}

	name, err := validation.ValidateClientName(req.ClientName)
	if err != nil {
		sendMessage(conn, ConnectResponse, ConnectResponseData{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	client := &Client{
		ID:        uuid.NewString(),
		Name:      name,
		Conn:      conn,
		Connected: true,
		LastInput: time.Now(),
	}

	if err := sendMessage(conn, ConnectResponse, ConnectResponseData{
		Success:    true,
		ClientID:   client.ID,
		UpdateRate: int(time.Second / s.updateRate),
	}); err != nil {
		s.logger.Error(ctx, "error sending connect response", err)
		return
	}

	s.clientsLock.Lock()
	s.clients[client.ID] = client
	s.clientsLock.Unlock()

	s.logger.Info(ctx, "telemetry client connected",
		"client_id", client.ID,
		"client_name", client.Name,
	)

	s.readClientMessages(ctx, client)
}

func (s *TelemetryServer) readClientMessages(ctx context.Context, client *Client) {
	defer s.removeClient(client)

	for s.isRunning() {
		msgType, data, err := readMessage(client.Conn)
		if err != nil {
			return
		}

		switch msgType {
		case ControlUpdate:
			s.handleControlUpdate(ctx, client, data)
		case PingRequest:
			sendMessage(client.Conn, PingResponse, struct {
				Timestamp int64 `json:"timestamp"`
			}{time.Now().UnixNano()})
		case DisconnectNotification:
			return
		default:
			s.logger.Warn(ctx, "unexpected message type", "type", msgType)
		}
	}
}

func (s *TelemetryServer) handleControlUpdate(ctx context.Context, client *Client, data []byte) {
	if err := s.validator.ValidateMessage(data, client.ID); err != nil {
		s.logger.Warn(ctx, "rejected control message",
			"client_id", client.ID,
			"reason", err.Error(),
		)
		return
	}

	var ctrl ControlUpdateData
	if err := json.Unmarshal(data, &ctrl); err != nil {
		s.logger.Warn(ctx, "malformed control message", "client_id", client.ID)
		return
	}

	client.LastInput = time.Now()
	s.sim.SetInput(ctrl.Input)
}

func (s *TelemetryServer) removeClient(client *Client) {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		client.Connected = false
		client.Conn.Close()
	}
}

// broadcastLoop pushes the latest snapshot to every client at the
// configured update rate. A failed write drops the client.
func (s *TelemetryServer) broadcastLoop() {
	ticker := time.NewTicker(s.updateRate)
	defer ticker.Stop()

	for s.isRunning() {
		<-ticker.C

		update := TelemetryUpdateData{
			Tick:    s.sim.Tick(),
			Elapsed: s.sim.Elapsed(),
			State:   s.sim.State(),
		}

		s.clientsLock.RLock()
		clients := make([]*Client, 0, len(s.clients))
		for _, c := range s.clients {
			clients = append(clients, c)
		}
		s.clientsLock.RUnlock()

		for _, client := range clients {
			if err := sendMessage(client.Conn, TelemetryUpdate, update); err != nil {
				s.removeClient(client)
			}
		}
	}
}
