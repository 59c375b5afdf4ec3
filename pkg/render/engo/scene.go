// pkg/render/engo/scene.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-airsim/pkg/config"
	"github.com/opd-ai/go-airsim/pkg/event"
	"github.com/opd-ai/go-airsim/pkg/network"
	"github.com/opd-ai/go-airsim/pkg/render"
)

// FlightScene is the main cockpit view. It consumes telemetry frames
// from the client and keeps the aircraft sprite and HUD in sync with
// them; the server remains the only writer of aircraft state.
type FlightScene struct {
	world *ecs.World

	client   *network.TelemetryClient
	eventBus *event.Bus
	config   *config.SimConfig

	renderer *FlightRenderer
	input    *InputSystem
	hud      *HUDSystem
}

// NewFlightScene creates the scene for a connected telemetry client.
func NewFlightScene(client *network.TelemetryClient, eventBus *event.Bus, cfg *config.SimConfig) *FlightScene {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &FlightScene{
		client:   client,
		eventBus: eventBus,
		config:   cfg,
		world:    &ecs.World{},
	}
}

// Type returns the scene type (required by Engo)
func (scene *FlightScene) Type() string {
	return "FlightScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *FlightScene) Preload() {
}

// Setup is called when the scene starts (required by Engo)
func (scene *FlightScene) Setup(u engo.Updater) {
	scene.world = &ecs.World{}

	SetupInputBindings()

	scene.world.AddSystem(&common.MouseSystem{})

	scene.renderer = NewFlightRenderer(scene.world,
		float64(scene.config.Screen.Width),
		float64(scene.config.Screen.Height),
	)
	if err := scene.renderer.Initialize(); err != nil {
		panic("Failed to initialize renderer: " + err.Error())
	}

	scene.input = NewInputSystem(scene.client)
	scene.world.AddSystem(scene.input)

	scene.hud = NewHUDSystem()
	scene.world.AddSystem(scene.hud)

	go scene.handleTelemetryFrames()

	scene.subscribeToEvents()
}

// subscribeToEvents routes flight events into the HUD.
func (scene *FlightScene) subscribeToEvents() {
	if scene.eventBus == nil {
		return
	}
	scene.eventBus.Subscribe(event.AircraftCrashed, func(e event.Event) {
		scene.hud.SetConnectionStatus("Flight ended")
	})
}

// handleTelemetryFrames applies each received frame to the view.
func (scene *FlightScene) handleTelemetryFrames() {
	for frame := range scene.client.Frames() {
		scene.applyFrame(frame)
	}
	scene.hud.SetConnectionStatus("Disconnected")
}

// applyFrame positions the aircraft sprite and refreshes the HUD from
// one telemetry frame.
func (scene *FlightScene) applyFrame(frame network.TelemetryUpdateData) {
	t := render.TransformFor(
		scene.config.Screen.StartX,
		scene.config.Screen.StartY,
		frame.State,
	)
	scene.renderer.RenderAircraft(t, frame.State)
	scene.hud.UpdateTelemetry(frame.Tick, frame.State)
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *FlightScene) Exit() {
	if scene.client != nil {
		scene.client.Disconnect()
	}
}
