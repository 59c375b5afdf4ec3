// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimConfig contains configuration for a flight simulation session
type SimConfig struct {
	Aircraft AircraftConfig `json:"aircraft"`
	Screen   ScreenConfig   `json:"screen"`
	Network  NetworkConfig  `json:"network"`
}

// AircraftConfig contains the tunable constants for the flight model.
// The values are bound to an aircraft at construction time and never
// change during its lifetime.
type AircraftConfig struct {
	PitchRate       float64 `json:"pitchRate"`       // degrees per second
	RollRate        float64 `json:"rollRate"`        // degrees per second
	ThrottleRate    float64 `json:"throttleRate"`    // throttle units per second
	LiftFactor      float64 `json:"liftFactor"`
	DragFactor      float64 `json:"dragFactor"`
	Gravity         float64 `json:"gravity"`         // ft/s^2, used loosely
	ThrustFactor    float64 `json:"thrustFactor"`    // max thrust scaling
	StallSpeed      float64 `json:"stallSpeed"`      // knots
	MaxSpeed        float64 `json:"maxSpeed"`        // knots
	InitialSpeed    float64 `json:"initialSpeed"`    // knots
	InitialThrottle float64 `json:"initialThrottle"` // 0.0 to 1.0
}

// ScreenConfig contains window and aircraft placement configuration
type ScreenConfig struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	StartX        float64 `json:"startX"`
	StartY        float64 `json:"startY"`
	StartAltitude float64 `json:"startAltitude"` // feet
}

// NetworkConfig contains telemetry network configuration
type NetworkConfig struct {
	UpdateRate    int    `json:"updateRate"` // snapshots per second
	ServerPort    int    `json:"serverPort"`
	ServerAddress string `json:"serverAddress"`
	WebSocketPath string `json:"webSocketPath"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SimConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultAircraftConfig returns flight model constants tuned for the
// arcade handling model. They are deliberately unrealistic.
func DefaultAircraftConfig() AircraftConfig {
	return AircraftConfig{
		PitchRate:       20,
		RollRate:        40,
		ThrottleRate:    0.25,
		LiftFactor:      0.015,
		DragFactor:      0.0006,
		Gravity:         9.8 * 3.28,
		ThrustFactor:    300,
		StallSpeed:      60,
		MaxSpeed:        400,
		InitialSpeed:    80,
		InitialThrottle: 0.5,
	}
}

// DefaultConfig returns a default simulation configuration
func DefaultConfig() *SimConfig {
	return &SimConfig{
		Aircraft: DefaultAircraftConfig(),
		Screen: ScreenConfig{
			Width:         800,
			Height:        600,
			StartX:        400,
			StartY:        300,
			StartAltitude: 1000,
		},
		Network: NetworkConfig{
			UpdateRate:    20,
			ServerPort:    4610,
			ServerAddress: "localhost:4610",
			WebSocketPath: "/ws/telemetry",
		},
	}
}
