// pkg/entity/aircraft.go
package entity

import (
	"math"

	"github.com/opd-ai/go-airsim/pkg/config"
	"github.com/opd-ai/go-airsim/pkg/physics"
)

// ControlInput is the discrete command set sampled once per frame.
// The zero value means hands-off flight.
//
// Note the control convention: PitchUp pushes the nose down and
// PitchDown pulls it up. This matches the inverted-style controls the
// handling model was tuned with and is part of the contract, not a bug.
type ControlInput struct {
	ThrottleUp   bool `json:"throttleUp"`
	ThrottleDown bool `json:"throttleDown"`
	PitchUp      bool `json:"pitchUp"`
	PitchDown    bool `json:"pitchDown"`
	RollLeft     bool `json:"rollLeft"`
	RollRight    bool `json:"rollRight"`
}

// AircraftState is a read-only telemetry snapshot for HUDs and
// network subscribers. Stalled is recomputed at snapshot time from
// the same formula the physics step uses.
type AircraftState struct {
	Speed         float64 `json:"speed"`
	Altitude      float64 `json:"altitude"`
	VerticalSpeed float64 `json:"verticalSpeed"`
	Throttle      float64 `json:"throttle"`
	Pitch         float64 `json:"pitch"`
	Roll          float64 `json:"roll"`
	Stalled       bool    `json:"stalled"`
	Crashed       bool    `json:"crashed"`
}

// Aircraft is the single simulated aircraft. All angles are degrees,
// speed is knots, altitude is feet. The aircraft does not move on
// screen; X and Y anchor the rendered sprite.
//
// Invariants after every Update: Throttle in [0,1], Pitch and Roll in
// [-80,80], Speed in [0,MaxSpeed], Altitude >= 0. Once Crashed is set
// the state is frozen and Update becomes a no-op.
type Aircraft struct {
	X             float64
	Y             float64
	Altitude      float64
	Pitch         float64
	Roll          float64
	Yaw           float64 // tracked but not consumed by physics or rendering
	Speed         float64
	VerticalSpeed float64
	Throttle      float64
	Crashed       bool

	cfg config.AircraftConfig
}

// Attitude limits in degrees.
const (
	maxPitchDeg = 80.0
	maxRollDeg  = 80.0
)

// groundEffectAltitude suppresses stall below this altitude in feet.
const groundEffectAltitude = 10.0

// Touchdown tolerances. Exceeding either converts a landing into a crash.
const (
	crashVerticalSpeed = 300.0
	crashRollDeg       = 30.0
)

// NewAircraft creates an aircraft at the given screen position and
// altitude with the tunables from cfg bound for its lifetime.
func NewAircraft(x, y, altitude float64, cfg config.AircraftConfig) *Aircraft {
	return &Aircraft{
		X:        x,
		Y:        y,
		Altitude: altitude,
		Speed:    cfg.InitialSpeed,
		Throttle: cfg.InitialThrottle,
		cfg:      cfg,
	}
}

// Config returns the tunables the aircraft was constructed with.
func (a *Aircraft) Config() config.AircraftConfig {
	return a.cfg
}

// Update advances the flight model by dt seconds using the sampled
// control input. The steps run in a fixed order: throttle, pitch,
// roll, longitudinal speed, stall check, vertical dynamics, altitude,
// ground interaction. A crashed aircraft is frozen. Non-positive or
// NaN dt is rejected as a no-op.
func (a *Aircraft) Update(dt float64, in ControlInput) {
	if a.Crashed {
		return
	}
	if dt <= 0 || math.IsNaN(dt) {
		return
	}

	// Throttle. Both flags may be held; they cancel out.
	if in.ThrottleUp {
		a.Throttle += a.cfg.ThrottleRate * dt
	}
	if in.ThrottleDown {
		a.Throttle -= a.cfg.ThrottleRate * dt
	}
	a.Throttle = physics.Clamp(a.Throttle, 0, 1)

	// Pitch, smoothed toward an offset target. PitchUp drops the nose.
	targetPitch := a.Pitch
	if in.PitchUp {
		targetPitch += a.cfg.PitchRate * dt
	}
	if in.PitchDown {
		targetPitch -= a.cfg.PitchRate * dt
	}
	a.Pitch = physics.Smooth(a.Pitch, targetPitch, 5.0, dt)
	a.Pitch = physics.Clamp(a.Pitch, -maxPitchDeg, maxPitchDeg)

	// Roll, with auto-level when no roll input is held.
	targetRoll := a.Roll
	if in.RollLeft {
		targetRoll += a.cfg.RollRate * dt
	}
	if in.RollRight {
		targetRoll -= a.cfg.RollRate * dt
	}
	if !in.RollLeft && !in.RollRight {
		targetRoll = 0
	}
	a.Roll = physics.Smooth(a.Roll, targetRoll, 6.0, dt)
	a.Roll = physics.Clamp(a.Roll, -maxRollDeg, maxRollDeg)

	// Longitudinal speed: thrust against quadratic drag, with a
	// gravity component that bleeds speed in a climb and adds it in
	// a dive. The 50 divisor stands in for mass.
	thrust := a.Throttle * a.cfg.ThrustFactor
	drag := a.Speed * a.Speed * a.cfg.DragFactor
	pitchEffect := math.Sin(physics.DegToRad(a.Pitch)) * a.cfg.Gravity * 5
	acceleration := thrust - drag - pitchEffect
	a.Speed += (acceleration / 50.0) * dt
	a.Speed = physics.Clamp(a.Speed, 0, a.cfg.MaxSpeed)

	stalled := a.stalled()

	// Vertical dynamics. Lift peaks at level pitch and collapses
	// toward vertical attitudes; a stalled aircraft gets no lift at
	// all, only an exaggerated gravity pull.
	if !stalled {
		liftCoefficient := 1.0 - math.Abs(math.Sin(physics.DegToRad(a.Pitch)))
		lift := a.Speed * a.Speed * a.cfg.LiftFactor * liftCoefficient
		verticalAcceleration := lift - a.cfg.Gravity*10
		a.VerticalSpeed += verticalAcceleration * dt * 0.5

		verticalThrust := a.Speed * math.Sin(physics.DegToRad(-a.Pitch)) * 5
		a.VerticalSpeed += verticalThrust * dt
	} else {
		a.VerticalSpeed -= a.cfg.Gravity * 3.0 * dt
	}

	// Air resistance on the vertical axis, stalled or not.
	a.VerticalSpeed = physics.Damp(a.VerticalSpeed, 0.2, dt)

	a.Altitude += a.VerticalSpeed * dt

	// Ground interaction.
	if a.Altitude <= 0 {
		a.Altitude = 0
		if math.Abs(a.VerticalSpeed) > crashVerticalSpeed || math.Abs(a.Roll) > crashRollDeg {
			a.Crashed = true
			a.Speed = 0
			a.VerticalSpeed = 0
		} else {
			a.VerticalSpeed = 0
			a.Speed = physics.Damp(a.Speed, 2.0, dt)
			if a.Speed < 1 {
				a.Speed = 0
			}
		}
	}
}

// State returns a telemetry snapshot. It never mutates the aircraft
// and can be called at any time, including mid-crash.
func (a *Aircraft) State() AircraftState {
	return AircraftState{
		Speed:         a.Speed,
		Altitude:      a.Altitude,
		VerticalSpeed: a.VerticalSpeed,
		Throttle:      a.Throttle,
		Pitch:         a.Pitch,
		Roll:          a.Roll,
		Stalled:       a.stalled(),
		Crashed:       a.Crashed,
	}
}

// stalled reports whether the aircraft is below stall speed at an
// altitude where stall applies. Near the ground the check is
// suppressed so a slow rollout does not read as a stall.
func (a *Aircraft) stalled() bool {
	return a.Speed < a.cfg.StallSpeed && a.Altitude > groundEffectAltitude
}
