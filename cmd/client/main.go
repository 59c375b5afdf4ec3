// cmd/client/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-airsim/pkg/config"
	"github.com/opd-ai/go-airsim/pkg/event"
	"github.com/opd-ai/go-airsim/pkg/network"
	"github.com/opd-ai/go-airsim/pkg/render"
	engorender "github.com/opd-ai/go-airsim/pkg/render/engo"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	serverAddr := flag.String("server", "", "Server address (overrides config)")
	pilotName := flag.String("name", "Pilot", "Pilot name")
	renderer := flag.String("renderer", "engo", "Renderer type: 'terminal' or 'engo'")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	flag.Parse()

	// Load configuration
	var simConfig *config.SimConfig

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		log.Printf("Configuration file not found, using default configuration")
		simConfig = config.DefaultConfig()
	} else {
		simConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	if *serverAddr == "" {
		*serverAddr = simConfig.Network.ServerAddress
	}

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load environment configuration: %v", err)
	}

	// Create event bus and client
	eventBus := event.NewEventBus()
	client := network.NewTelemetryClient(envConfig)

	log.Printf("Connecting to server at %s", *serverAddr)
	if err := client.Connect(context.Background(), *serverAddr, *pilotName); err != nil {
		log.Fatalf("Failed to connect to server: %v", err)
	}
	log.Printf("Connected as %s", client.ClientID())

	switch *renderer {
	case "terminal":
		startTerminalRenderer(client)
	case "engo":
		fallthrough
	default:
		startEngoRenderer(client, eventBus, simConfig, *fullscreen)
	}
}

// startEngoRenderer opens the cockpit window.
func startEngoRenderer(client *network.TelemetryClient, eventBus *event.Bus, cfg *config.SimConfig, fullscreen bool) {
	scene := engorender.NewFlightScene(client, eventBus, cfg)

	opts := engo.RunOptions{
		Title:      "airsim",
		Width:      cfg.Screen.Width,
		Height:     cfg.Screen.Height,
		Fullscreen: fullscreen,
		VSync:      true,
	}

	engo.Run(opts, scene)
}

// startTerminalRenderer streams the HUD line to stdout. There is no
// keyboard handling here; the terminal view is a passive monitor.
func startTerminalRenderer(client *network.TelemetryClient) {
	go func() {
		for frame := range client.Frames() {
			log.Printf("tick=%d %s", frame.Tick, render.FormatHUD(frame.State))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Disconnecting from server...")
	client.Disconnect()
}
