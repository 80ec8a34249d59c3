package http

import (
	"net/http"

	"classroom_server/internal/db"
	"classroom_server/internal/http/controllers"
	"classroom_server/internal/http/middleware"
	"classroom_server/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine) {
	database := db.GetDB()

	classService := services.NewClassService(database)
	deviceService := services.NewDeviceService(database)
	assignmentService := services.NewAssignmentService(database)
	logService := services.NewLogService(database)
	telemetryService := services.NewTelemetryService(database, nil)

	authController := controllers.NewAuthController()
	classController := controllers.NewClassController(classService, deviceService, assignmentService, GetHub())
	deviceController := controllers.NewDeviceController(deviceService, telemetryService, GetHub())
	logController := controllers.NewLogController(logService)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// WebSocket endpoint for realtime device events
	router.GET("/ws", HandleWebSocket)

	// API version 1
	v1 := router.Group("/api/v1")
	{
		// Public authentication routes (no middleware)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authController.Login)
		}

		// Protected authentication routes
		authProtected := v1.Group("/auth")
		authProtected.Use(middleware.AuthMiddleware())
		{
			authProtected.POST("/logout", authController.Logout)
			authProtected.GET("/me", authController.Me)
		}

		// Class routes
		classes := v1.Group("/classes")
		classes.Use(middleware.AuthMiddleware())
		{
			classes.GET("", classController.GetClasses)
			classes.GET("/:id", classController.GetClass)
			classes.POST("", middleware.AdminOnlyMiddleware(), classController.CreateClass)
			classes.PUT("/:id", middleware.AdminOnlyMiddleware(), classController.UpdateClass)
			classes.DELETE("/:id", middleware.AdminOnlyMiddleware(), classController.DeleteClass)

			// ":id" also accepts the legacy "undefined"/"0" tokens for
			// the unassigned bucket
			classes.GET("/:id/devices", classController.GetClassDevices)
			classes.POST("/:id/assign-devices", middleware.AdminOnlyMiddleware(), classController.AssignDevices)
		}

		// Device routes
		devices := v1.Group("/devices")
		devices.Use(middleware.AuthMiddleware())
		{
			devices.GET("", deviceController.GetDevices)
			devices.GET("/unassigned", deviceController.GetUnassignedDevices)
			devices.GET("/:id", deviceController.GetDevice)
			devices.POST("", middleware.AdminOnlyMiddleware(), deviceController.CreateDevice)
			devices.PUT("/:id", middleware.AdminOnlyMiddleware(), deviceController.UpdateDevice)
			devices.DELETE("/:id", middleware.AdminOnlyMiddleware(), deviceController.DeleteDevice)

			// State toggles; all four share one service primitive
			devices.POST("/:id/connect", deviceController.ConnectDevice)
			devices.POST("/:id/disconnect", deviceController.DisconnectDevice)
			devices.POST("/:id/turn-on", deviceController.TurnOnDevice)
			devices.POST("/:id/turn-off", deviceController.TurnOffDevice)

			// Telemetry poll
			devices.GET("/:id/data", deviceController.GetDeviceData)
		}

		// Operation log routes
		logs := v1.Group("/logs")
		logs.Use(middleware.AuthMiddleware())
		{
			logs.GET("", logController.GetLogs)
			logs.GET("/:id", logController.GetLogDetail)
			logs.DELETE("", middleware.AdminOnlyMiddleware(), logController.ClearLogs)
		}
	}
}
