package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/alsxui/provisioning-gateway/internal/client"
	"github.com/alsxui/provisioning-gateway/internal/config"
	"github.com/alsxui/provisioning-gateway/internal/http"
	"github.com/alsxui/provisioning-gateway/internal/service"
)

func main() {
	log.Println("Starting Provisioning Gateway...")

	// Optional .env for local runs; real deployments inject the environment.
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the panel client
	panelClient := client.NewPanelClient(cfg.Panel)

	// Initialize services
	provisionService := service.NewProvisionService(cfg, panelClient)

	// Initialize HTTP server
	server := http.NewServer(cfg, provisionService)

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("Server starting on %s", addr)
		if err := server.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server exited")
}
