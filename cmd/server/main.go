// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/opd-ai/go-airsim/pkg/config"
	"github.com/opd-ai/go-airsim/pkg/engine"
	"github.com/opd-ai/go-airsim/pkg/event"
	"github.com/opd-ai/go-airsim/pkg/health"
	"github.com/opd-ai/go-airsim/pkg/logging"
	"github.com/opd-ai/go-airsim/pkg/network"
	"github.com/opd-ai/go-airsim/pkg/resource"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	flag.Parse()

	if *createDefault {
		defaultConfig := config.DefaultConfig()
		if err := config.SaveConfig(defaultConfig, *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	// Load simulation configuration
	var simConfig *config.SimConfig

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		simConfig = config.DefaultConfig()
	} else {
		simConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	// Load deployment configuration from environment
	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}

	// Resource manager guards goroutine and memory budgets
	resourceManager := resource.NewResourceManager(envConfig)
	if err := resourceManager.Start(); err != nil {
		logger.Error(ctx, "Failed to start resource manager", err)
		os.Exit(1)
	}

	// Create the simulation
	eventBus := event.NewEventBus()
	timeStep := 1.0 / envConfig.TickRate
	sim := engine.NewSimulation(simConfig, eventBus, timeStep)

	logFlightEvents(ctx, logger, eventBus)

	// Create telemetry server
	server := network.NewTelemetryServer(sim, envConfig.MaxClients, envConfig.UpdateRate)

	// Websocket feed for browser viewers
	hub := network.NewTelemetryHub(sim)

	// Setup health checks
	healthChecker := health.NewHealthChecker()

	healthChecker.AddCheck(health.NewSimLoopHealthCheck(
		sim.LastTick,
		5*time.Second,
	))

	healthChecker.AddCheck(health.NewNetworkHealthCheck(
		func() string { return server.Addr() },
	))

	healthChecker.AddCheck(health.NewMemoryHealthCheck(envConfig.MaxMemoryMB, func() int64 {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return int64(m.Alloc / 1024 / 1024)
	}))

	healthChecker.AddCheck(resource.NewResourceHealthCheck(resourceManager))

	// Health check and websocket HTTP server
	healthPort := "8080"
	if envPort := os.Getenv("AIRSIM_HEALTH_PORT"); envPort != "" {
		if _, err := strconv.Atoi(envPort); err == nil {
			healthPort = envPort
		}
	}

	httpMux := http.NewServeMux()
	httpMux.HandleFunc("/health", healthChecker.LivenessHandler)
	httpMux.HandleFunc("/ready", healthChecker.ReadinessHandler)
	httpMux.Handle("/ws", hub.Handler())

	httpServer := &http.Server{
		Addr:         ":" + healthPort,
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
	}

	go func() {
		logger.Info(ctx, "Starting HTTP server",
			"port", healthPort,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "HTTP server failed", err)
		}
	}()

	// Run the simulation loop
	simCtx, cancelSim := context.WithCancel(ctx)
	defer cancelSim()

	if err := resourceManager.StartGoroutine(simCtx, "simulation-loop", func(loopCtx context.Context) {
		if err := sim.Run(loopCtx); err != nil {
			logger.Error(ctx, "Simulation loop exited", err)
		}
	}); err != nil {
		logger.Error(ctx, "Failed to start simulation loop", err)
		os.Exit(1)
	}

	hub.Start(simCtx)

	// Start telemetry server
	serverAddr := fmt.Sprintf("%s:%d", envConfig.ServerAddr, envConfig.ServerPort)
	logger.Info(ctx, "Starting telemetry server",
		"address", serverAddr,
		"max_clients", envConfig.MaxClients,
		"tick_rate", envConfig.TickRate,
	)
	if err := server.Start(serverAddr); err != nil {
		logger.Error(ctx, "Failed to start telemetry server", err,
			"address", serverAddr,
		)
		os.Exit(1)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), envConfig.ShutdownTimeout)
	defer cancel()

	cancelSim()
	hub.Stop()
	server.Stop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown failed", err)
	}

	if err := resourceManager.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Resource manager shutdown failed", err)
	}
}

// logFlightEvents reports flight transitions in the server log.
func logFlightEvents(ctx context.Context, logger *logging.Logger, bus *event.Bus) {
	bus.Subscribe(event.AircraftStalled, func(e event.Event) {
		if fe, ok := e.(*event.FlightEvent); ok {
			logger.Warn(ctx, "aircraft stalled",
				"tick", fe.Tick,
				"altitude", fe.Altitude,
				"speed", fe.Speed,
			)
		}
	})
	bus.Subscribe(event.StallRecovered, func(e event.Event) {
		if fe, ok := e.(*event.FlightEvent); ok {
			logger.Info(ctx, "stall recovered",
				"tick", fe.Tick,
				"speed", fe.Speed,
			)
		}
	})
	bus.Subscribe(event.AircraftLanded, func(e event.Event) {
		if fe, ok := e.(*event.FlightEvent); ok {
			logger.Info(ctx, "aircraft landed",
				"tick", fe.Tick,
				"speed", fe.Speed,
			)
		}
	})
	bus.Subscribe(event.AircraftCrashed, func(e event.Event) {
		if fe, ok := e.(*event.FlightEvent); ok {
			logger.Warn(ctx, "aircraft crashed",
				"tick", fe.Tick,
				"vertical_speed", fe.VerticalSpeed,
				"roll", fe.Roll,
			)
		}
	})
}
