package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"classroom_server/config"
	"classroom_server/internal/db"
	"classroom_server/internal/http"
	"classroom_server/pkg/colors"

	"github.com/joho/godotenv"
)

func main() {
	colors.PrintBanner()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		colors.PrintWarning("No .env file found, using system environment variables")
	} else {
		colors.PrintSuccess("Environment configuration loaded from .env file")
	}

	if err := config.InitializeTimezone(); err != nil {
		colors.PrintWarning("Timezone initialization failed: %v", err)
	}

	colors.PrintInfo("Initializing database connection...")
	if err := db.Initialize(); err != nil {
		colors.PrintError("Failed to initialize database: %v", err)
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer db.Close()

	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	colors.PrintHeader("CLASSROOM DEVICE CONTROL SERVER")

	colors.PrintSubHeader("Available REST API Endpoints")
	colors.PrintEndpoint("GET", "/health", "Health check")
	colors.PrintEndpoint("POST", "/api/v1/auth/login", "User authentication")
	colors.PrintEndpoint("GET", "/api/v1/classes", "List classes with device counts")
	colors.PrintEndpoint("GET", "/api/v1/classes/:id/devices", "List devices in a class")
	colors.PrintEndpoint("POST", "/api/v1/classes/:id/assign-devices", "Rewrite class membership (Admin)")
	colors.PrintEndpoint("GET", "/api/v1/devices", "List devices")
	colors.PrintEndpoint("POST", "/api/v1/devices", "Register device (Admin)")
	colors.PrintEndpoint("POST", "/api/v1/devices/:id/turn-on", "Turn device on")
	colors.PrintEndpoint("POST", "/api/v1/devices/:id/turn-off", "Turn device off")
	colors.PrintEndpoint("GET", "/api/v1/devices/:id/data", "Poll telemetry readings")
	colors.PrintEndpoint("GET", "/api/v1/logs", "Query operation log")
	colors.PrintEndpoint("DELETE", "/api/v1/logs", "Clear operation log (Admin)")
	colors.PrintEndpoint("GET", "/ws", "Realtime device events")

	errorChan := make(chan error, 1)
	go func() {
		server := http.NewServer(httpPort)
		if err := server.Start(); err != nil {
			errorChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errorChan:
		colors.PrintError("Server startup failed: %v", err)
	case <-quit:
		colors.PrintShutdown()
	}
}
