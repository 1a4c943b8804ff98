package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"quote-configurator/app"
	"quote-configurator/config"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, using system environment variables", envPath)
		} else {
			log.Printf("Successfully loaded environment variables from %s (overriding system variables)", envPath)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize application
	application, err := app.Initialize(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer application.Close()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	addr := "0.0.0.0:" + cfg.Port
	log.Printf("Server starting on %s", addr)
	log.Printf("Catalog endpoint: GET http://localhost:%s/api/catalog", cfg.Port)

	if err := http.ListenAndServe(addr, application.Handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
