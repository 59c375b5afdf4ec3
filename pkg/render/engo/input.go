// pkg/render/engo/input.go
package engo

import (
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-airsim/pkg/entity"
	"github.com/opd-ai/go-airsim/pkg/network"
)

// InputSystem polls the six flight controls each frame and forwards
// the latched state to the telemetry server. The arrow keys follow the
// inverted convention: up arrow pushes the nose down.
type InputSystem struct {
	client *network.TelemetryClient

	current entity.ControlInput

	lastInputSent time.Time
	inputDelay    time.Duration
}

// NewInputSystem creates a new input system
func NewInputSystem(client *network.TelemetryClient) *InputSystem {
	return &InputSystem{
		client:     client,
		inputDelay: time.Millisecond * 50,
	}
}

// Add satisfies the ecs.System interface
func (is *InputSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {
}

// Update polls the controls and sends them to the server at the
// configured interval.
func (is *InputSystem) Update(dt float32) {
	is.current = entity.ControlInput{
		PitchUp:      engo.Input.Button("pitchUp").Down(),
		PitchDown:    engo.Input.Button("pitchDown").Down(),
		RollLeft:     engo.Input.Button("rollLeft").Down(),
		RollRight:    engo.Input.Button("rollRight").Down(),
		ThrottleUp:   engo.Input.Button("throttleUp").Down(),
		ThrottleDown: engo.Input.Button("throttleDown").Down(),
	}

	if time.Since(is.lastInputSent) >= is.inputDelay {
		is.sendInputToServer()
		is.lastInputSent = time.Now()
	}
}

// Current returns the most recently polled control state.
func (is *InputSystem) Current() entity.ControlInput {
	return is.current
}

func (is *InputSystem) sendInputToServer() {
	if is.client == nil || !is.client.Connected() {
		return
	}
	// A dropped input frame is harmless; the next poll resends the
	// full control state.
	_ = is.client.SendInput(is.current)
}

// SetupInputBindings registers the flight control keys.
func SetupInputBindings() {
	engo.Input.RegisterButton("pitchUp", engo.KeyArrowUp)
	engo.Input.RegisterButton("pitchDown", engo.KeyArrowDown)
	engo.Input.RegisterButton("rollLeft", engo.KeyArrowLeft)
	engo.Input.RegisterButton("rollRight", engo.KeyArrowRight)
	engo.Input.RegisterButton("throttleUp", engo.KeyW)
	engo.Input.RegisterButton("throttleDown", engo.KeyS)
}
