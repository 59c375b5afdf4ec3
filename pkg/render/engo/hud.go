// pkg/render/engo/hud.go
package engo

import (
	"image/color"
	"sync"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-airsim/pkg/entity"
	"github.com/opd-ai/go-airsim/pkg/render"
)

// HUDSystem draws the instrument readout: one telemetry line across
// the top of the window plus warning banners for stall and crash.
type HUDSystem struct {
	hudEntities []*ecs.BasicEntity

	connectionStatus string

	mu        sync.RWMutex
	telemetry entity.AircraftState
	tick      uint64

	font *common.Font

	hudColor   color.Color
	warnColor  color.Color
	crashColor color.Color
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem() *HUDSystem {
	return &HUDSystem{
		connectionStatus: "Connected",
		hudColor:         color.RGBA{255, 255, 255, 255},
		warnColor:        color.RGBA{255, 200, 0, 255},
		crashColor:       color.RGBA{255, 64, 64, 255},
	}
}

// Add satisfies the ecs.System interface
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {
}

// Update redraws the HUD from the latest telemetry.
func (hud *HUDSystem) Update(dt float32) {
	hud.clearHUDEntities()

	hud.mu.RLock()
	st := hud.telemetry
	hud.mu.RUnlock()

	hud.renderText(render.FormatHUD(st), 10, 10, hud.hudColor)
	hud.renderConnectionStatus()

	if st.Crashed {
		hud.renderBanner("CRASHED - RESTART TO FLY AGAIN", hud.crashColor)
	} else if st.Stalled {
		hud.renderBanner("STALL", hud.warnColor)
	}
}

// UpdateTelemetry stores the latest snapshot for the next HUD redraw.
// Safe to call from the network goroutine.
func (hud *HUDSystem) UpdateTelemetry(tick uint64, st entity.AircraftState) {
	hud.mu.Lock()
	hud.telemetry = st
	hud.tick = tick
	hud.mu.Unlock()
}

// Telemetry returns the snapshot the HUD is currently displaying.
func (hud *HUDSystem) Telemetry() (uint64, entity.AircraftState) {
	hud.mu.RLock()
	defer hud.mu.RUnlock()
	return hud.tick, hud.telemetry
}

// SetConnectionStatus sets the connection status display
func (hud *HUDSystem) SetConnectionStatus(status string) {
	hud.connectionStatus = status
}

// ConnectionStatus returns the current connection status text.
func (hud *HUDSystem) ConnectionStatus() string {
	return hud.connectionStatus
}

// clearHUDEntities removes previous HUD entities
func (hud *HUDSystem) clearHUDEntities() {
	hud.hudEntities = hud.hudEntities[:0]
}

// renderConnectionStatus renders the connection status
func (hud *HUDSystem) renderConnectionStatus() {
	statusColor := hud.hudColor
	if hud.connectionStatus != "Connected" {
		statusColor = hud.crashColor
	}

	hud.renderText(
		"Status: "+hud.connectionStatus,
		float32(engo.GameWidth())-150,
		10,
		statusColor,
	)
}

// renderBanner renders a centered warning banner.
func (hud *HUDSystem) renderBanner(text string, bannerColor color.Color) {
	x := float32(engo.GameWidth())/2 - float32(len(text)*4)
	y := float32(engo.GameHeight()) / 3
	hud.renderText(text, x, y, bannerColor)
}

// renderText renders text at the specified position
func (hud *HUDSystem) renderText(text string, x, y float32, textColor color.Color) {
	basic := ecs.NewBasic()

	renderComponent := common.RenderComponent{
		Drawable: common.Text{
			Font: hud.font,
			Text: text,
		},
		Color: textColor,
	}

	spaceComponent := common.SpaceComponent{
		Position: engo.Point{X: x, Y: y},
		Width:    float32(len(text) * 8),
		Height:   16,
	}

	hud.hudEntities = append(hud.hudEntities, &basic)

	_ = renderComponent
	_ = spaceComponent
}

// SetFont sets the font used for HUD text rendering
func (hud *HUDSystem) SetFont(font *common.Font) {
	hud.font = font
}
