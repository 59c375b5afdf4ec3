// pkg/render/transform.go
package render

import (
	"github.com/opd-ai/go-airsim/pkg/entity"
	"github.com/opd-ai/go-airsim/pkg/physics"
)

// Transform is everything a drawer needs to place the aircraft sprite:
// the screen anchor, the bank angle to rotate the base shape by, and
// the crashed flag so the drawer can suppress or replace the sprite.
type Transform struct {
	X       float64
	Y       float64
	RollDeg float64
	Crashed bool
}

// pitchOffsetScale converts pitch degrees into a vertical screen
// offset, a visual nose-up/down cue.
const pitchOffsetScale = 1.5

// TransformFor derives the render transform for an aircraft anchored
// at (x, y). Pitch shifts the sprite vertically; roll rotates it.
func TransformFor(x, y float64, st entity.AircraftState) Transform {
	return Transform{
		X:       x,
		Y:       y - st.Pitch*pitchOffsetScale,
		RollDeg: st.Roll,
		Crashed: st.Crashed,
	}
}

// Shape is an immutable polygon in local coordinates centered on its
// anchor. Rotation produces a fresh shape rather than mutating shared
// drawing state.
type Shape struct {
	points []physics.Vector2D
}

// NewShape copies the given vertices into an immutable shape.
func NewShape(points []physics.Vector2D) Shape {
	copied := make([]physics.Vector2D, len(points))
	copy(copied, points)
	return Shape{points: copied}
}

// AircraftShape returns the base aircraft triangle: a 30x40 arrowhead
// pointing up, centered on the origin.
func AircraftShape() Shape {
	return NewShape([]physics.Vector2D{
		{X: 0, Y: -20},
		{X: -15, Y: 20},
		{X: 15, Y: 20},
	})
}

// Points returns a copy of the shape's vertices.
func (s Shape) Points() []physics.Vector2D {
	out := make([]physics.Vector2D, len(s.points))
	copy(out, s.points)
	return out
}

// Rotated returns a new shape rotated by the given angle in degrees.
// The receiver is unchanged.
func (s Shape) Rotated(deg float64) Shape {
	rad := physics.DegToRad(deg)
	rotated := make([]physics.Vector2D, len(s.points))
	for i, p := range s.points {
		rotated[i] = p.Rotate(rad)
	}
	return Shape{points: rotated}
}

// Translated returns a new shape offset by (dx, dy).
func (s Shape) Translated(dx, dy float64) Shape {
	moved := make([]physics.Vector2D, len(s.points))
	for i, p := range s.points {
		moved[i] = p.Add(physics.Vector2D{X: dx, Y: dy})
	}
	return Shape{points: moved}
}
