package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"classroom_server/internal/models"
	"classroom_server/pkg/colors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The dashboard may be served from another origin
		return true
	},
}

// WebSocketHub fans device events out to connected dashboards
type WebSocketHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// WebSocketMessage represents a message sent through WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StatusUpdate is the realtime payload for a device state change
type StatusUpdate struct {
	DeviceID  string              `json:"device_id"`
	Status    models.DeviceStatus `json:"current_status"`
	Operation string              `json:"operation"`
}

// AssignmentUpdate is the realtime payload for a membership rewrite
type AssignmentUpdate struct {
	ClassID   int      `json:"class_id"`
	DeviceIDs []string `json:"device_ids"`
}

var hub *WebSocketHub

// InitializeWebSocket creates and starts the WebSocket hub
func InitializeWebSocket() {
	hub = &WebSocketHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
	go hub.run()
}

// GetHub returns the global hub
func GetHub() *WebSocketHub {
	return hub
}

func (h *WebSocketHub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			active := len(h.clients)
			h.mutex.Unlock()
			colors.PrintDebug("WebSocket client connected (%d active)", active)

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *WebSocketHub) send(messageType string, data interface{}) {
	message := WebSocketMessage{
		Type:      messageType,
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      data,
	}
	payload, err := json.Marshal(message)
	if err != nil {
		colors.PrintWarning("Failed to marshal websocket message: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// A stalled hub must never block a request
	}
}

// DeviceStatusChanged broadcasts a device state change
func (h *WebSocketHub) DeviceStatusChanged(deviceID string, status models.DeviceStatus, operation string) {
	h.send("device_status", StatusUpdate{
		DeviceID:  deviceID,
		Status:    status,
		Operation: operation,
	})
}

// DevicesAssigned broadcasts a class membership rewrite
func (h *WebSocketHub) DevicesAssigned(classID int, deviceIDs []string) {
	h.send("assignment", AssignmentUpdate{
		ClassID:   classID,
		DeviceIDs: deviceIDs,
	})
}

// HandleWebSocket upgrades an HTTP request to a WebSocket connection
func HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		colors.PrintWarning("WebSocket upgrade failed: %v", err)
		return
	}

	hub.register <- conn

	// Drain the connection until the client goes away
	go func() {
		defer func() {
			hub.unregister <- conn
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
