package config

import (
	"os"
	"testing"
	"time"
)

// createValidConfig creates a valid EnvironmentConfig for testing
func createValidConfig() *EnvironmentConfig {
	return &EnvironmentConfig{
		ServerAddr:   "localhost",
		ServerPort:   4610,
		MaxClients:   16,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		UpdateRate:   20,
		TickRate:     60,

		CircuitBreakerMaxRequests:         3,
		CircuitBreakerInterval:            60 * time.Second,
		CircuitBreakerTimeout:             30 * time.Second,
		CircuitBreakerMaxConsecutiveFails: 5,

		MaxMemoryMB:           500,
		MaxGoroutines:         100,
		ShutdownTimeout:       30 * time.Second,
		ResourceCheckInterval: 10 * time.Second,
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	envVars := []string{
		"AIRSIM_SERVER_ADDR",
		"AIRSIM_SERVER_PORT",
		"AIRSIM_MAX_CLIENTS",
		"AIRSIM_UPDATE_RATE",
		"AIRSIM_TICK_RATE",
	}
	for _, key := range envVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv failed: %v", err)
	}

	if cfg.ServerAddr != "localhost" {
		t.Errorf("expected default server addr localhost, got %s", cfg.ServerAddr)
	}
	if cfg.ServerPort != 4610 {
		t.Errorf("expected default port 4610, got %d", cfg.ServerPort)
	}
	if cfg.TickRate != 60 {
		t.Errorf("expected default tick rate 60, got %f", cfg.TickRate)
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("AIRSIM_SERVER_ADDR", "0.0.0.0")
	t.Setenv("AIRSIM_SERVER_PORT", "9000")
	t.Setenv("AIRSIM_MAX_CLIENTS", "4")
	t.Setenv("AIRSIM_TICK_RATE", "30")
	t.Setenv("AIRSIM_READ_TIMEOUT", "5s")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv failed: %v", err)
	}

	if cfg.ServerAddr != "0.0.0.0" {
		t.Errorf("expected server addr 0.0.0.0, got %s", cfg.ServerAddr)
	}
	if cfg.ServerPort != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.ServerPort)
	}
	if cfg.MaxClients != 4 {
		t.Errorf("expected max clients 4, got %d", cfg.MaxClients)
	}
	if cfg.TickRate != 30 {
		t.Errorf("expected tick rate 30, got %f", cfg.TickRate)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout 5s, got %v", cfg.ReadTimeout)
	}
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("AIRSIM_SERVER_PORT", "not-a-number")
	t.Setenv("AIRSIM_TICK_RATE", "fast")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv failed: %v", err)
	}
	if cfg.ServerPort != 4610 {
		t.Errorf("expected fallback port 4610, got %d", cfg.ServerPort)
	}
	if cfg.TickRate != 60 {
		t.Errorf("expected fallback tick rate 60, got %f", cfg.TickRate)
	}
}

func TestValidateEnvironmentConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*EnvironmentConfig)
		wantErr bool
	}{
		{
			name:    "Valid config",
			mutate:  func(c *EnvironmentConfig) {},
			wantErr: false,
		},
		{
			name:    "Empty server address",
			mutate:  func(c *EnvironmentConfig) { c.ServerAddr = "" },
			wantErr: true,
		},
		{
			name:    "Port out of range",
			mutate:  func(c *EnvironmentConfig) { c.ServerPort = 70000 },
			wantErr: true,
		},
		{
			name:    "Zero max clients",
			mutate:  func(c *EnvironmentConfig) { c.MaxClients = 0 },
			wantErr: true,
		},
		{
			name:    "Negative tick rate",
			mutate:  func(c *EnvironmentConfig) { c.TickRate = -1 },
			wantErr: true,
		},
		{
			name:    "Zero update rate",
			mutate:  func(c *EnvironmentConfig) { c.UpdateRate = 0 },
			wantErr: true,
		},
		{
			name:    "Zero circuit breaker requests",
			mutate:  func(c *EnvironmentConfig) { c.CircuitBreakerMaxRequests = 0 },
			wantErr: true,
		},
		{
			name:    "Zero max memory",
			mutate:  func(c *EnvironmentConfig) { c.MaxMemoryMB = 0 },
			wantErr: true,
		},
		{
			name:    "Zero max goroutines",
			mutate:  func(c *EnvironmentConfig) { c.MaxGoroutines = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createValidConfig()
			tt.mutate(cfg)
			err := ValidateEnvironmentConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEnvironmentConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
