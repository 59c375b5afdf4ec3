// pkg/engine/sim.go
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/opd-ai/go-airsim/pkg/config"
	"github.com/opd-ai/go-airsim/pkg/entity"
	"github.com/opd-ai/go-airsim/pkg/event"
)

// Status describes the simulation lifecycle
type Status int

const (
	StatusWaiting Status = iota
	StatusActive
	StatusEnded
)

// Simulation owns the single aircraft and drives it at a fixed time
// step. The frame loop is the only writer of aircraft state; inputs
// arrive from other goroutines through SetInput and are sampled once
// per frame. Telemetry readers get immutable snapshots.
type Simulation struct {
	Config   *config.SimConfig
	TimeStep float64 // seconds per frame

	aircraft *entity.Aircraft
	eventBus *event.Bus

	mu       sync.RWMutex
	input    entity.ControlInput
	snapshot entity.AircraftState
	status   Status
	tick     uint64
	elapsed  float64
	lastTick time.Time

	// Edge detection for event emission
	wasStalled  bool
	wasAirborne bool

	subMu sync.Mutex
	subs  map[chan entity.AircraftState]struct{}
}

// NewSimulation creates a simulation from the given config. A nil
// event bus disables event emission.
func NewSimulation(cfg *config.SimConfig, bus *event.Bus, timeStep float64) *Simulation {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if timeStep <= 0 {
		timeStep = 1.0 / 60.0
	}

	aircraft := entity.NewAircraft(
		cfg.Screen.StartX,
		cfg.Screen.StartY,
		cfg.Screen.StartAltitude,
		cfg.Aircraft,
	)

	return &Simulation{
		Config:      cfg,
		TimeStep:    timeStep,
		aircraft:    aircraft,
		eventBus:    bus,
		snapshot:    aircraft.State(),
		wasAirborne: cfg.Screen.StartAltitude > 0,
		subs:        make(map[chan entity.AircraftState]struct{}),
	}
}

// SetInput replaces the control input sampled by the next frame.
// Safe to call from any goroutine.
func (s *Simulation) SetInput(in entity.ControlInput) {
	s.mu.Lock()
	s.input = in
	s.mu.Unlock()
}

// Input returns the currently latched control input.
func (s *Simulation) Input() entity.ControlInput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

// State returns the most recent telemetry snapshot.
func (s *Simulation) State() entity.AircraftState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Status returns the simulation lifecycle status.
func (s *Simulation) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Tick returns the number of completed frames.
func (s *Simulation) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Elapsed returns simulated seconds since start.
func (s *Simulation) Elapsed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

// LastTick returns the wall-clock time of the most recent frame.
// Health probes use it to detect a stalled loop.
func (s *Simulation) LastTick() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTick
}

// Position returns the fixed screen anchor of the aircraft.
func (s *Simulation) Position() (x, y float64) {
	return s.aircraft.X, s.aircraft.Y
}

// Subscribe returns a channel of per-frame snapshots and a cancel
// function. Slow subscribers drop frames rather than blocking the
// frame loop.
func (s *Simulation) Subscribe() (<-chan entity.AircraftState, func()) {
	ch := make(chan entity.AircraftState, 32)

	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	unsub := func() {
		s.subMu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, unsub
}

// Step advances the simulation one frame: sample the latched input,
// run the flight model, snapshot the result, publish events for edge
// transitions, and fan the snapshot out to subscribers.
func (s *Simulation) Step() {
	s.mu.Lock()
	in := s.input
	if s.status == StatusWaiting {
		s.status = StatusActive
	}
	s.mu.Unlock()

	wasCrashed := s.aircraft.Crashed

	s.aircraft.Update(s.TimeStep, in)
	st := s.aircraft.State()

	s.mu.Lock()
	s.tick++
	s.elapsed += s.TimeStep
	s.lastTick = time.Now()
	s.snapshot = st
	if st.Crashed {
		s.status = StatusEnded
	}
	tick := s.tick
	wasStalled := s.wasStalled
	wasAirborne := s.wasAirborne
	s.wasStalled = st.Stalled
	s.wasAirborne = st.Altitude > 0
	s.mu.Unlock()

	s.emitTransitions(tick, st, wasCrashed, wasStalled, wasAirborne)
	s.publish(st)
}

// Run drives Step on a wall-clock ticker until the context is
// canceled or the aircraft crashes.
func (s *Simulation) Run(ctx context.Context) error {
	if s.eventBus != nil {
		s.eventBus.Publish(&event.BaseEvent{EventType: event.SimulationStarted, Source: s})
	}

	ticker := time.NewTicker(time.Duration(s.TimeStep * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.stop()
			return ctx.Err()
		case <-ticker.C:
			s.Step()
			if s.Status() == StatusEnded {
				s.stop()
				return nil
			}
		}
	}
}

func (s *Simulation) stop() {
	if s.eventBus != nil {
		s.eventBus.Publish(&event.BaseEvent{EventType: event.SimulationStopped, Source: s})
	}

	s.subMu.Lock()
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

func (s *Simulation) emitTransitions(tick uint64, st entity.AircraftState, wasCrashed, wasStalled, wasAirborne bool) {
	if s.eventBus == nil {
		return
	}

	if st.Crashed && !wasCrashed {
		s.eventBus.Publish(event.NewFlightEvent(
			event.AircraftCrashed, s, tick, st.Altitude, st.Speed, st.VerticalSpeed, st.Roll))
		return
	}
	if st.Stalled && !wasStalled {
		s.eventBus.Publish(event.NewFlightEvent(
			event.AircraftStalled, s, tick, st.Altitude, st.Speed, st.VerticalSpeed, st.Roll))
	}
	if !st.Stalled && wasStalled {
		s.eventBus.Publish(event.NewFlightEvent(
			event.StallRecovered, s, tick, st.Altitude, st.Speed, st.VerticalSpeed, st.Roll))
	}
	if wasAirborne && st.Altitude == 0 && !st.Crashed {
		s.eventBus.Publish(event.NewFlightEvent(
			event.AircraftLanded, s, tick, st.Altitude, st.Speed, st.VerticalSpeed, st.Roll))
	}
}

func (s *Simulation) publish(st entity.AircraftState) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- st:
		default:
			// slow subscriber, drop the frame
		}
	}
}
