// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig contains deployment configuration loaded from
// AIRSIM_* environment variables. It covers the telemetry server,
// circuit breaker, and resource management settings.
type EnvironmentConfig struct {
	ServerAddr   string
	ServerPort   int
	MaxClients   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	UpdateRate   int
	TickRate     float64 // simulation frames per second

	// Circuit Breaker Configuration
	CircuitBreakerMaxRequests         int
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails int

	// Resource Management Configuration
	MaxMemoryMB           int64
	MaxGoroutines         int
	ShutdownTimeout       time.Duration
	ResourceCheckInterval time.Duration
}

// LoadConfigFromEnv loads the environment configuration, applying
// defaults for any unset variables and validating the result.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	cfg := &EnvironmentConfig{
		ServerAddr:   getEnvString("AIRSIM_SERVER_ADDR", "localhost"),
		ServerPort:   getEnvInt("AIRSIM_SERVER_PORT", 4610),
		MaxClients:   getEnvInt("AIRSIM_MAX_CLIENTS", 16),
		ReadTimeout:  getEnvDuration("AIRSIM_READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getEnvDuration("AIRSIM_WRITE_TIMEOUT", 30*time.Second),
		UpdateRate:   getEnvInt("AIRSIM_UPDATE_RATE", 20),
		TickRate:     getEnvFloat("AIRSIM_TICK_RATE", 60),

		CircuitBreakerMaxRequests:         getEnvInt("AIRSIM_CB_MAX_REQUESTS", 3),
		CircuitBreakerInterval:            getEnvDuration("AIRSIM_CB_INTERVAL", 60*time.Second),
		CircuitBreakerTimeout:             getEnvDuration("AIRSIM_CB_TIMEOUT", 30*time.Second),
		CircuitBreakerMaxConsecutiveFails: getEnvInt("AIRSIM_CB_MAX_CONSECUTIVE_FAILS", 5),

		MaxMemoryMB:           int64(getEnvInt("AIRSIM_MAX_MEMORY_MB", 500)),
		MaxGoroutines:         getEnvInt("AIRSIM_MAX_GOROUTINES", 100),
		ShutdownTimeout:       getEnvDuration("AIRSIM_SHUTDOWN_TIMEOUT", 30*time.Second),
		ResourceCheckInterval: getEnvDuration("AIRSIM_RESOURCE_CHECK_INTERVAL", 10*time.Second),
	}

	if err := ValidateEnvironmentConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateEnvironmentConfig checks the configuration for values that
// would break the server at runtime.
func ValidateEnvironmentConfig(cfg *EnvironmentConfig) error {
	if cfg.ServerAddr == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return fmt.Errorf("server port must be in range 1-65535, got %d", cfg.ServerPort)
	}
	if cfg.MaxClients <= 0 {
		return fmt.Errorf("max clients must be positive, got %d", cfg.MaxClients)
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if cfg.UpdateRate <= 0 {
		return fmt.Errorf("update rate must be positive, got %d", cfg.UpdateRate)
	}
	if cfg.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %f", cfg.TickRate)
	}
	if cfg.CircuitBreakerMaxRequests <= 0 {
		return fmt.Errorf("circuit breaker max requests must be positive")
	}
	if cfg.CircuitBreakerMaxConsecutiveFails <= 0 {
		return fmt.Errorf("circuit breaker max consecutive fails must be positive")
	}
	if cfg.MaxMemoryMB <= 0 {
		return fmt.Errorf("max memory must be positive, got %d", cfg.MaxMemoryMB)
	}
	if cfg.MaxGoroutines <= 0 {
		return fmt.Errorf("max goroutines must be positive, got %d", cfg.MaxGoroutines)
	}
	if cfg.ShutdownTimeout <= 0 || cfg.ResourceCheckInterval <= 0 {
		return fmt.Errorf("shutdown timeout and resource check interval must be positive")
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
