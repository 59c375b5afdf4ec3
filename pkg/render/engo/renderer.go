// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-airsim/pkg/entity"
	"github.com/opd-ai/go-airsim/pkg/render"
)

// aircraftEntity bundles the ECS entity with its components so they
// can be updated in place each frame.
type aircraftEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// FlightRenderer implements render.Renderer on top of the Engo render
// system. It keeps one aircraft entity and a ground strip, updating
// their components from each telemetry frame.
type FlightRenderer struct {
	world        *ecs.World
	renderSystem *common.RenderSystem
	assets       *AssetManager

	aircraft *aircraftEntity
	ground   *aircraftEntity

	screenWidth  float64
	screenHeight float64
}

// NewFlightRenderer creates an Engo-backed renderer for the given
// screen dimensions.
func NewFlightRenderer(world *ecs.World, screenWidth, screenHeight float64) *FlightRenderer {
	return &FlightRenderer{
		world:        world,
		assets:       NewAssetManager(),
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// Initialize sets up the render system and generates textures.
func (r *FlightRenderer) Initialize() error {
	r.renderSystem = &common.RenderSystem{}
	r.world.AddSystem(r.renderSystem)

	if err := r.assets.LoadAssets(); err != nil {
		return err
	}

	r.ground = r.createGroundEntity()
	r.aircraft = r.createAircraftEntity()
	return nil
}

// Clear implements render.Renderer. Engo clears the frame itself, so
// there is nothing to do here.
func (r *FlightRenderer) Clear() {}

// Present implements render.Renderer. Engo presents through its own
// render system.
func (r *FlightRenderer) Present() {}

// RenderAircraft implements render.Renderer. The transform's roll
// rotates the sprite and its Y carries the pitch offset.
func (r *FlightRenderer) RenderAircraft(t render.Transform, st entity.AircraftState) {
	if r.aircraft == nil {
		return
	}

	r.aircraft.SpaceComponent.Position = engo.Point{
		X: float32(t.X) - r.aircraft.SpaceComponent.Width/2,
		Y: float32(t.Y) - r.aircraft.SpaceComponent.Height/2,
	}
	r.aircraft.SpaceComponent.Rotation = float32(t.RollDeg)

	if t.Crashed {
		r.aircraft.RenderComponent.Drawable = r.assets.GetCrashSprite()
		r.aircraft.RenderComponent.Color = color.RGBA{255, 64, 64, 255}
		return
	}

	r.aircraft.RenderComponent.Drawable = r.assets.GetAircraftSprite()
	if st.Stalled {
		r.aircraft.RenderComponent.Color = color.RGBA{255, 200, 0, 255}
	} else {
		r.aircraft.RenderComponent.Color = color.RGBA{255, 255, 255, 255}
	}
}

func (r *FlightRenderer) createAircraftEntity() *aircraftEntity {
	e := &aircraftEntity{BasicEntity: ecs.NewBasic()}

	e.RenderComponent = common.RenderComponent{
		Drawable: r.assets.GetAircraftSprite(),
		Color:    color.RGBA{255, 255, 255, 255},
	}
	e.RenderComponent.SetZIndex(10)

	e.SpaceComponent = common.SpaceComponent{
		Position: engo.Point{
			X: float32(r.screenWidth/2) - 15,
			Y: float32(r.screenHeight/2) - 20,
		},
		Width:  30,
		Height: 40,
	}

	r.renderSystem.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
	return e
}

// createGroundEntity draws a strip along the bottom edge of the window
// as a horizon reference.
func (r *FlightRenderer) createGroundEntity() *aircraftEntity {
	e := &aircraftEntity{BasicEntity: ecs.NewBasic()}

	groundHeight := float32(40)

	e.RenderComponent = common.RenderComponent{
		Drawable: r.assets.GetGroundTexture(),
		Color:    color.RGBA{60, 120, 60, 255},
		Scale:    engo.Point{X: float32(r.screenWidth) / 2, Y: groundHeight / 2},
	}
	e.RenderComponent.SetZIndex(1)

	e.SpaceComponent = common.SpaceComponent{
		Position: engo.Point{X: 0, Y: float32(r.screenHeight) - groundHeight},
		Width:    float32(r.screenWidth),
		Height:   groundHeight,
	}

	r.renderSystem.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
	return e
}
