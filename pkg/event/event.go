// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	AircraftCrashed   Type = "aircraft_crashed"
	AircraftStalled   Type = "aircraft_stalled"
	StallRecovered    Type = "stall_recovered"
	AircraftLanded    Type = "aircraft_landed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type]map[int]Handler
	nextID   int
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type]map[int]Handler),
	}
}

// Subscribe registers a handler for a specific event type and returns
// a function that removes it again. The return value may be ignored by
// subscribers that live for the whole session.
func (b *Bus) Subscribe(eventType Type, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[eventType][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[eventType], id)
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.GetType()]))
	for _, h := range b.handlers[event.GetType()] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// FlightEvent carries the flight metrics at the moment the event was
// emitted so collaborators can report them without another state
// query.
type FlightEvent struct {
	BaseEvent
	Tick          uint64
	Altitude      float64
	Speed         float64
	VerticalSpeed float64
	Roll          float64
}

// NewFlightEvent creates a new flight event
func NewFlightEvent(eventType Type, source interface{}, tick uint64, altitude, speed, verticalSpeed, roll float64) *FlightEvent {
	return &FlightEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Tick:          tick,
		Altitude:      altitude,
		Speed:         speed,
		VerticalSpeed: verticalSpeed,
		Roll:          roll,
	}
}
