package http

import (
	"os"

	"classroom_server/pkg/colors"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	port   string
}

// NewServer creates a new HTTP server instance
func NewServer(port string) *Server {
	// Release mode keeps gin's own debug output quiet
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Request logging only on demand
	if os.Getenv("LOG_HTTP") == "true" {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())

	InitializeWebSocket()
	SetupRoutes(router)

	return &Server{
		router: router,
		port:   port,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	colors.PrintServer("HTTP REST API server starting on port %s", s.port)
	colors.PrintServer("WebSocket endpoint available at /ws for realtime device events")
	return s.router.Run(":" + s.port)
}
