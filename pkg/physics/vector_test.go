package physics

import (
	"math"
	"testing"
)

func TestVector2D_AddSub(t *testing.T) {
	a := Vector2D{X: 1, Y: 2}
	b := Vector2D{X: 3, Y: -1}

	sum := a.Add(b)
	if sum.X != 4 || sum.Y != 1 {
		t.Errorf("Add: expected (4, 1), got (%f, %f)", sum.X, sum.Y)
	}

	diff := a.Sub(b)
	if diff.X != -2 || diff.Y != 3 {
		t.Errorf("Sub: expected (-2, 3), got (%f, %f)", diff.X, diff.Y)
	}
}

func TestVector2D_Length(t *testing.T) {
	v := Vector2D{X: 3, Y: 4}
	if v.Length() != 5 {
		t.Errorf("expected length 5, got %f", v.Length())
	}
}

func TestVector2D_Normalize(t *testing.T) {
	v := Vector2D{X: 10, Y: 0}
	n := v.Normalize()
	if n.X != 1 || n.Y != 0 {
		t.Errorf("expected (1, 0), got (%f, %f)", n.X, n.Y)
	}

	zero := Vector2D{}.Normalize()
	if zero.X != 0 || zero.Y != 0 {
		t.Error("normalizing zero vector should return zero vector")
	}
}

func TestVector2D_Rotate(t *testing.T) {
	v := Vector2D{X: 1, Y: 0}
	r := v.Rotate(math.Pi / 2)
	if math.Abs(r.X) > 1e-9 || math.Abs(r.Y-1) > 1e-9 {
		t.Errorf("expected (0, 1), got (%f, %f)", r.X, r.Y)
	}

	// Rotation preserves length
	w := Vector2D{X: 3, Y: 4}
	if math.Abs(w.Rotate(1.234).Length()-5) > 1e-9 {
		t.Error("rotation should preserve vector length")
	}
}

func TestVector2D_DotDistance(t *testing.T) {
	a := Vector2D{X: 1, Y: 2}
	b := Vector2D{X: 3, Y: -1}

	if got := a.Dot(b); got != 1 {
		t.Errorf("Dot: expected 1, got %f", got)
	}

	if got := a.Distance(Vector2D{X: 4, Y: 6}); got != 5 {
		t.Errorf("Distance: expected 5, got %f", got)
	}

	if got := a.LengthSquared(); got != 5 {
		t.Errorf("LengthSquared: expected 5, got %f", got)
	}
}

func TestVector2D_Angle(t *testing.T) {
	v := Vector2D{X: 0, Y: 1}
	if math.Abs(v.Angle()-math.Pi/2) > 1e-9 {
		t.Errorf("expected pi/2, got %f", v.Angle())
	}
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(0, 10)
	if math.Abs(v.X-10) > 1e-9 || math.Abs(v.Y) > 1e-9 {
		t.Errorf("expected (10, 0), got (%f, %f)", v.X, v.Y)
	}
}
