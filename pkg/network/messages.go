// pkg/network/messages.go
package network

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net"

	"github.com/opd-ai/go-airsim/pkg/entity"
)

// MessageType defines the type of network message
type MessageType byte

const (
	ConnectRequest MessageType = iota
	ConnectResponse
	TelemetryUpdate
	ControlUpdate
	PingRequest
	PingResponse
	DisconnectNotification
)

// ConnectRequestData is the handshake sent by a telemetry client.
type ConnectRequestData struct {
	ClientName string `json:"clientName"`
}

// ConnectResponseData acknowledges or rejects a handshake.
type ConnectResponseData struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	ClientID   string `json:"clientID,omitempty"`
	UpdateRate int    `json:"updateRate,omitempty"`
}

// TelemetryUpdateData is one frame of telemetry pushed to clients.
type TelemetryUpdateData struct {
	Tick    uint64               `json:"tick"`
	Elapsed float64              `json:"elapsed"`
	State   entity.AircraftState `json:"state"`
}

// ControlUpdateData carries a client's control input to the engine.
type ControlUpdateData struct {
	Input entity.ControlInput `json:"input"`
}

// maxFrameSize bounds a single framed message on the wire.
const maxFrameSize = 65535

// readMessage reads one framed message: a type byte, a big-endian
// uint16 length, then the JSON payload.
func readMessage(conn net.Conn) (MessageType, []byte, error) {
	var msgType MessageType
	if err := binary.Read(conn, binary.BigEndian, &msgType); err != nil {
		return 0, nil, err
	}

	var msgLen uint16
	if err := binary.Read(conn, binary.BigEndian, &msgLen); err != nil {
		return 0, nil, err
	}

	data := make([]byte, msgLen)
	if _, err := io.ReadFull(conn, data); err != nil {
		return 0, nil, err
	}

	return msgType, data, nil
}

// sendMessage writes one framed message to a connection.
func sendMessage(conn net.Conn, msgType MessageType, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if len(data) > maxFrameSize {
		return errors.New("message too large")
	}

	if err := binary.Write(conn, binary.BigEndian, msgType); err != nil {
		return err
	}
	if err := binary.Write(conn, binary.BigEndian, uint16(len(data))); err != nil {
		return err
	}
	if _, err := conn.Write(data); err != nil {
		return err
	}
	return nil
}
