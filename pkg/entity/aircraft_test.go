package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-airsim/pkg/config"
)

func newTestAircraft() *Aircraft {
	return NewAircraft(400, 300, 1000, config.DefaultAircraftConfig())
}

func TestNewAircraft_InitialState(t *testing.T) {
	a := newTestAircraft()

	if a.Speed != 80 {
		t.Errorf("expected initial speed 80, got %f", a.Speed)
	}
	if a.Throttle != 0.5 {
		t.Errorf("expected initial throttle 0.5, got %f", a.Throttle)
	}
	if a.Pitch != 0 || a.Roll != 0 || a.Yaw != 0 {
		t.Error("expected zero initial attitude")
	}
	if a.Altitude != 1000 {
		t.Errorf("expected initial altitude 1000, got %f", a.Altitude)
	}
	if a.Crashed {
		t.Error("new aircraft must not be crashed")
	}
}

// allInputCombinations enumerates every subset of the six control flags.
func allInputCombinations() []ControlInput {
	combos := make([]ControlInput, 0, 64)
	for bits := 0; bits < 64; bits++ {
		combos = append(combos, ControlInput{
			ThrottleUp:   bits&1 != 0,
			ThrottleDown: bits&2 != 0,
			PitchUp:      bits&4 != 0,
			PitchDown:    bits&8 != 0,
			RollLeft:     bits&16 != 0,
			RollRight:    bits&32 != 0,
		})
	}
	return combos
}

func checkInvariants(t *testing.T, a *Aircraft) {
	t.Helper()
	cfg := a.Config()

	if a.Throttle < 0 || a.Throttle > 1 {
		t.Fatalf("throttle out of range: %f", a.Throttle)
	}
	if a.Pitch < -80 || a.Pitch > 80 {
		t.Fatalf("pitch out of range: %f", a.Pitch)
	}
	if a.Roll < -80 || a.Roll > 80 {
		t.Fatalf("roll out of range: %f", a.Roll)
	}
	if a.Speed < 0 || a.Speed > cfg.MaxSpeed {
		t.Fatalf("speed out of range: %f", a.Speed)
	}
	if a.Altitude < 0 {
		t.Fatalf("altitude below ground: %f", a.Altitude)
	}
}

func TestUpdate_InvariantsHoldForAllInputs(t *testing.T) {
	for _, in := range allInputCombinations() {
		a := newTestAircraft()
		for i := 0; i < 100; i++ {
			a.Update(0.05, in)
			checkInvariants(t, a)
		}
	}
}

func TestUpdate_CrashFreezesState(t *testing.T) {
	a := newTestAircraft()
	a.Altitude = 5
	a.VerticalSpeed = -400

	a.Update(0.1, ControlInput{})
	if !a.Crashed {
		t.Fatal("expected crash on hard touchdown")
	}
	if a.Speed != 0 || a.VerticalSpeed != 0 {
		t.Errorf("crash should zero speed and vertical speed, got %f, %f", a.Speed, a.VerticalSpeed)
	}

	frozen := *a
	inputs := []ControlInput{
		{},
		{ThrottleUp: true, PitchDown: true},
		{RollLeft: true, RollRight: true, PitchUp: true},
	}
	for _, in := range inputs {
		for i := 0; i < 10; i++ {
			a.Update(0.1, in)
		}
	}

	if *a != frozen {
		t.Errorf("crashed aircraft mutated: %+v != %+v", *a, frozen)
	}
}

func TestUpdate_RollCrashOnTouchdown(t *testing.T) {
	a := newTestAircraft()
	a.Altitude = 2
	a.Roll = 45
	a.VerticalSpeed = -50

	// Keep the bank held so auto-level does not save the landing.
	a.Update(0.1, ControlInput{RollLeft: true})

	if !a.Crashed {
		t.Errorf("expected crash with roll %f at touchdown", a.Roll)
	}
}

func TestUpdate_GlideToGround(t *testing.T) {
	a := NewAircraft(400, 300, 100, config.DefaultAircraftConfig())

	steps := 0
	for a.Altitude > 0 && steps < 10000 {
		a.Update(0.1, ControlInput{})
		steps++
	}
	if a.Altitude != 0 {
		t.Fatalf("aircraft never reached the ground in %d steps", steps)
	}

	if a.Crashed {
		// Terminal outcome: fields zeroed and frozen.
		if a.Speed != 0 || a.VerticalSpeed != 0 {
			t.Error("crashed aircraft should have zero speed and vertical speed")
		}
		return
	}

	// Soft landing: vertical speed reset, rollout decays the speed.
	if a.VerticalSpeed != 0 {
		t.Errorf("soft landing should reset vertical speed, got %f", a.VerticalSpeed)
	}
	for i := 0; i < 200; i++ {
		a.Update(0.1, ControlInput{})
	}
	if a.Speed >= 10 {
		t.Errorf("expected ground friction to bleed speed below 10, got %f", a.Speed)
	}
}

func TestUpdate_PitchConvergesWithoutOvershoot(t *testing.T) {
	a := newTestAircraft()

	prev := a.Pitch
	for i := 0; i < 2000; i++ {
		a.Update(0.1, ControlInput{PitchDown: true})
		if a.Pitch < -80 {
			t.Fatalf("pitch overshot the clamp: %f", a.Pitch)
		}
		if a.Pitch > prev {
			t.Fatalf("pitch moved away from its target at step %d: %f -> %f", i, prev, a.Pitch)
		}
		prev = a.Pitch
	}
	if math.Abs(a.Pitch-(-80)) > 0.5 {
		t.Errorf("expected pitch to settle near -80, got %f", a.Pitch)
	}
}

func TestUpdate_RollConvergesWithoutOvershoot(t *testing.T) {
	a := newTestAircraft()
	// Stay airborne and away from the ground check.
	a.Altitude = 50000

	for i := 0; i < 2000 && !a.Crashed; i++ {
		a.Update(0.1, ControlInput{RollLeft: true, ThrottleUp: true})
		if a.Roll > 80 {
			t.Fatalf("roll overshot the clamp: %f", a.Roll)
		}
	}
	if a.Crashed {
		t.Skip("aircraft reached the ground before roll settled")
	}
	if math.Abs(a.Roll-80) > 0.5 {
		t.Errorf("expected roll to settle near 80, got %f", a.Roll)
	}
}

func TestUpdate_RollAutoLevels(t *testing.T) {
	a := newTestAircraft()
	a.Altitude = 50000
	a.Roll = 40

	prevAbs := math.Abs(a.Roll)
	for i := 0; i < 100; i++ {
		a.Update(0.05, ControlInput{})
		abs := math.Abs(a.Roll)
		if abs > prevAbs+1e-9 {
			t.Fatalf("roll magnitude grew with no input at step %d: %f -> %f", i, prevAbs, abs)
		}
		prevAbs = abs
	}
	if prevAbs > 2 {
		t.Errorf("expected roll near level after release, got %f", a.Roll)
	}
}

func TestUpdate_ThrottleSymmetry(t *testing.T) {
	a := newTestAircraft()
	before := a.Throttle

	a.Update(0.1, ControlInput{ThrottleUp: true, ThrottleDown: true})

	if a.Throttle != before {
		t.Errorf("simultaneous throttle up+down changed throttle: %f -> %f", before, a.Throttle)
	}
}

func TestState_StallFormula(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		altitude float64
		stalled  bool
	}{
		{"Slow at altitude", 50, 500, true},
		{"Slow near ground", 50, 5, false},
		{"Fast at altitude", 120, 500, false},
		{"At stall speed exactly", 60, 500, false},
		{"Just below stall speed", 59.9, 500, true},
		{"Slow at altitude threshold", 50, 10, false},
		{"Slow just above threshold", 50, 10.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAircraft()
			a.Speed = tt.speed
			a.Altitude = tt.altitude

			if got := a.State().Stalled; got != tt.stalled {
				t.Errorf("Stalled = %v, want %v (speed=%f, altitude=%f)",
					got, tt.stalled, tt.speed, tt.altitude)
			}
		})
	}
}

func TestState_DoesNotMutate(t *testing.T) {
	a := newTestAircraft()
	a.Update(0.1, ControlInput{ThrottleUp: true})

	before := *a
	for i := 0; i < 5; i++ {
		_ = a.State()
	}
	if *a != before {
		t.Error("State() mutated the aircraft")
	}
}

func TestUpdate_RejectsBadTimeStep(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"Zero dt", 0},
		{"Negative dt", -0.1},
		{"NaN dt", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAircraft()
			before := *a
			a.Update(tt.dt, ControlInput{ThrottleUp: true, PitchDown: true})
			if *a != before {
				t.Errorf("Update with dt=%f mutated state", tt.dt)
			}
		})
	}
}

func TestUpdate_StallDescends(t *testing.T) {
	a := newTestAircraft()
	a.Altitude = 5000
	a.Speed = 40 // below stall speed

	a.Update(0.1, ControlInput{})

	if a.VerticalSpeed >= 0 {
		t.Errorf("stalled aircraft should descend, vertical speed %f", a.VerticalSpeed)
	}
}
