package main

import (
	"log"
	"os"

	"classroom_server/config"
	"classroom_server/internal/db"
	"classroom_server/internal/http"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := config.InitializeTimezone(); err != nil {
		log.Printf("Timezone initialization failed: %v", err)
	}

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	server := http.NewServer(port)

	log.Printf("Classroom device control server starting on port %s", port)
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}
