package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"classroom_server/internal/models"
	"classroom_server/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(&models.Class{}, &models.Device{}, &models.OperationLog{}, &models.DataRecord{}); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	return database
}

func updateDeviceRequest(t *testing.T, controller *DeviceController, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/devices/d-1", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "d-1"}}

	controller.UpdateDevice(c)
	return w
}

func TestUpdateDeviceMalformedClassRef(t *testing.T) {
	database := newControllerTestDB(t)
	controller := NewDeviceController(services.NewDeviceService(database), nil, nil)

	w := updateDeviceRequest(t, controller, `{"class_id": "abc"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse error response: %v", err)
	}
	if resp.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR code, got %q", resp.Code)
	}
	if !strings.Contains(resp.Message, "class_id") {
		t.Errorf("Expected message to name the field, got %q", resp.Message)
	}
}

func TestUpdateDeviceMalformedJSON(t *testing.T) {
	database := newControllerTestDB(t)
	controller := NewDeviceController(services.NewDeviceService(database), nil, nil)

	w := updateDeviceRequest(t, controller, `{"device_name": `)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse error response: %v", err)
	}
	if resp.Code != "INVALID_JSON" {
		t.Errorf("Expected INVALID_JSON code, got %q", resp.Code)
	}
}
