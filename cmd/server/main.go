package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/hwatkins/procurement-finder/internal/api"
	"github.com/hwatkins/procurement-finder/internal/config"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load("internal/config/sources.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	port := cfg.Server.Port
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	server := api.NewServer(cfg)
	log.Printf("Starting server on :%s", port)
	if err := server.Start(port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
