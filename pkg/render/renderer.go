// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-airsim/pkg/entity"
	"github.com/opd-ai/go-airsim/pkg/logging"
)

// Renderer draws one frame of the simulation. The core never touches a
// drawing surface; it hands a Transform and a telemetry snapshot to a
// Renderer once per frame.
type Renderer interface {
	Clear()
	RenderAircraft(t Transform, st entity.AircraftState)
	Present()
}

// NullRenderer is a Renderer that only logs, for headless servers and
// tests.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
	}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {}

// Present implements Renderer.
func (d *NullRenderer) Present() {}

// RenderAircraft implements Renderer.
func (d *NullRenderer) RenderAircraft(t Transform, st entity.AircraftState) {
	d.logger.Debug(context.Background(), "RenderAircraft called",
		"x", t.X,
		"y", t.Y,
		"roll", t.RollDeg,
		"crashed", t.Crashed,
	)
}
