// pkg/network/client.go
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/opd-ai/go-airsim/pkg/config"
	"github.com/opd-ai/go-airsim/pkg/entity"
	"github.com/opd-ai/go-airsim/pkg/logging"
)

// TelemetryClient connects to a TelemetryServer, receives snapshot
// frames, and sends control inputs. Connection attempts run through
// the circuit breaker so a dead server fails fast instead of hanging
// the HUD.
type TelemetryClient struct {
	conn      net.Conn
	service   *NetworkService
	logger    *logging.Logger
	clientID  string
	connected bool
	mu        sync.RWMutex

	latest  TelemetryUpdateData
	frames  chan TelemetryUpdateData
	closeCh chan struct{}
}

// NewTelemetryClient creates a client using the circuit breaker
// settings from envConfig.
func NewTelemetryClient(envConfig *config.EnvironmentConfig) *TelemetryClient {
	return &TelemetryClient{
		service: NewNetworkService(envConfig),
		logger:  logging.NewLogger(),
		frames:  make(chan TelemetryUpdateData, 32),
		closeCh: make(chan struct{}),
	}
}

// Connect dials the server and performs the handshake. Retries with
// backoff are handled by the network service.
func (c *TelemetryClient) Connect(ctx context.Context, address, clientName string) error {
	err := c.service.ExecuteWithRetry(ctx, func() error {
		return c.dialAndHandshake(address, clientName)
	})
	if err != nil {
		return logging.WrapError(err, "telemetry connect to %s", address)
	}

	go c.messageLoop()
	return nil
}

func (c *TelemetryClient) dialAndHandshake(address, clientName string) error {
	conn, err := net.DialTimeout("tcp", address, 5*time.Second)
	if err != nil {
		return err
	}

	if err := sendMessage(conn, ConnectRequest, ConnectRequestData{ClientName: clientName}); err != nil {
		conn.Close()
		return err
	}

	msgType, data, err := readMessage(conn)
	if err != nil {
		conn.Close()
		return err
	}
	if msgType != ConnectResponse {
		conn.Close()
		return fmt.Errorf("expected connect response, got %d", msgType)
	}

	var resp ConnectResponseData
	if err := json.Unmarshal(data, &resp); err != nil {
		conn.Close()
		return err
	}
	if !resp.Success {
		conn.Close()
		return fmt.Errorf("connection rejected: %s", resp.Error)
	}

	c.mu.Lock()
	c.conn = conn
	c.clientID = resp.ClientID
	c.connected = true
	c.mu.Unlock()

	c.logger.Info(context.Background(), "connected to telemetry server",
		"address", address,
		"client_id", resp.ClientID,
	)
	return nil
}

// Connected reports whether the client holds a live connection.
func (c *TelemetryClient) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// ClientID returns the server-assigned identifier.
func (c *TelemetryClient) ClientID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

// SendInput transmits a control input frame to the server.
func (c *TelemetryClient) SendInput(in entity.ControlInput) error {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if !connected || conn == nil {
		return fmt.Errorf("not connected")
	}
	return sendMessage(conn, ControlUpdate, ControlUpdateData{Input: in})
}

// State returns the most recently received telemetry frame.
func (c *TelemetryClient) State() TelemetryUpdateData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// Frames returns the channel of received telemetry frames. Slow
// consumers lose frames but always see the latest via State.
func (c *TelemetryClient) Frames() <-chan TelemetryUpdateData {
	return c.frames
}

// Disconnect notifies the server and closes the connection.
func (c *TelemetryClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	close(c.closeCh)

	sendMessage(c.conn, DisconnectNotification, struct{}{})
	return c.conn.Close()
}

func (c *TelemetryClient) messageLoop() {
	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		msgType, data, err := readMessage(conn)
		if err != nil {
			c.mu.Lock()
			wasConnected := c.connected
			c.connected = false
			c.mu.Unlock()
			if wasConnected {
				c.logger.Warn(context.Background(), "telemetry stream closed", "error", err.Error())
			}
			return
		}

		if msgType != TelemetryUpdate {
			continue
		}

		var update TelemetryUpdateData
		if err := json.Unmarshal(data, &update); err != nil {
			continue
		}

		c.mu.Lock()
		c.latest = update
		c.mu.Unlock()

		select {
		case c.frames <- update:
		default:
			// consumer is behind, drop the frame
		}
	}
}
