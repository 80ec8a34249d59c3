package controllers

import (
	"errors"
	"net/http"

	"classroom_server/internal/models"
	"classroom_server/internal/services"

	"github.com/gin-gonic/gin"
)

// StatusNotifier receives device state changes for realtime fan-out.
// The hub in the http package implements it; controllers stay unaware
// of the websocket machinery.
type StatusNotifier interface {
	DeviceStatusChanged(deviceID string, status models.DeviceStatus, operation string)
}

// DeviceController handles device-related HTTP requests
type DeviceController struct {
	devices   *services.DeviceService
	telemetry *services.TelemetryService
	notifier  StatusNotifier
}

// NewDeviceController creates a new device controller
func NewDeviceController(devices *services.DeviceService, telemetry *services.TelemetryService, notifier StatusNotifier) *DeviceController {
	return &DeviceController{devices: devices, telemetry: telemetry, notifier: notifier}
}

// GetDevices returns all devices with their class names
func (dc *DeviceController) GetDevices(c *gin.Context) {
	devices, err := dc.devices.List()
	if err != nil {
		serviceError(c, err, "Device not found")
		return
	}
	successResponse(c, http.StatusOK, "Devices retrieved successfully", devices, len(devices))
}

// GetUnassignedDevices returns devices that belong to no class
func (dc *DeviceController) GetUnassignedDevices(c *gin.Context) {
	devices, err := dc.devices.ListUnassigned()
	if err != nil {
		serviceError(c, err, "Device not found")
		return
	}
	successResponse(c, http.StatusOK, "Unassigned devices retrieved successfully", devices, len(devices))
}

// GetDevice returns a single device by ID
func (dc *DeviceController) GetDevice(c *gin.Context) {
	device, err := dc.devices.Get(c.Param("id"))
	if err != nil {
		serviceError(c, err, "No device found with the specified ID")
		return
	}
	successResponse(c, http.StatusOK, "Device retrieved successfully", device, 0)
}

// CreateDevice registers a new device
func (dc *DeviceController) CreateDevice(c *gin.Context) {
	var req services.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format in request body")
		return
	}

	if err := dc.devices.Create(req); err != nil {
		serviceError(c, err, "Device not found")
		return
	}
	successResponse(c, http.StatusCreated, "Device created successfully", nil, 0)
}

// UpdateDevice applies a partial update to a device
func (dc *DeviceController) UpdateDevice(c *gin.Context) {
	var req services.UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A sentinel-normalization failure carries field detail the
		// generic JSON error would swallow
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			serviceError(c, err, "No device found with the specified ID")
			return
		}
		errorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format in request body")
		return
	}

	if err := dc.devices.Update(c.Param("id"), req); err != nil {
		serviceError(c, err, "No device found with the specified ID")
		return
	}
	successResponse(c, http.StatusOK, "Device updated successfully", nil, 0)
}

// DeleteDevice removes a device and all of its logs and telemetry
func (dc *DeviceController) DeleteDevice(c *gin.Context) {
	if err := dc.devices.Delete(c.Param("id")); err != nil {
		serviceError(c, err, "No device found with the specified ID")
		return
	}
	successResponse(c, http.StatusOK, "Device deleted successfully", nil, 0)
}

// The four state-toggle endpoints differ only in target status and
// audit label; they share the one SetStatus primitive.

// ConnectDevice turns a device on with a "connect device" audit entry
func (dc *DeviceController) ConnectDevice(c *gin.Context) {
	dc.setStatus(c, models.DeviceStatusOn, "connect device", "Device connected successfully")
}

// DisconnectDevice turns a device off with a "disconnect device" audit entry
func (dc *DeviceController) DisconnectDevice(c *gin.Context) {
	dc.setStatus(c, models.DeviceStatusOff, "disconnect device", "Device disconnected successfully")
}

// TurnOnDevice turns a device on with a "turn on device" audit entry
func (dc *DeviceController) TurnOnDevice(c *gin.Context) {
	dc.setStatus(c, models.DeviceStatusOn, "turn on device", "Device turned on successfully")
}

// TurnOffDevice turns a device off with a "turn off device" audit entry
func (dc *DeviceController) TurnOffDevice(c *gin.Context) {
	dc.setStatus(c, models.DeviceStatusOff, "turn off device", "Device turned off successfully")
}

func (dc *DeviceController) setStatus(c *gin.Context, status models.DeviceStatus, logLabel, message string) {
	id := c.Param("id")
	if err := dc.devices.SetStatus(id, status, logLabel); err != nil {
		serviceError(c, err, "No device found with the specified ID")
		return
	}
	if dc.notifier != nil {
		dc.notifier.DeviceStatusChanged(id, status, logLabel)
	}
	successResponse(c, http.StatusOK, message, nil, 0)
}

// GetDeviceData polls simulated readings for a device, records them
// and returns them with the recent history window
func (dc *DeviceController) GetDeviceData(c *gin.Context) {
	snapshot, err := dc.telemetry.PollAndRecord(c.Param("id"))
	if err != nil {
		serviceError(c, err, "No device found with the specified ID")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
