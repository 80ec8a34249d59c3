package controllers

import (
	"net/http"
	"strconv"

	"classroom_server/internal/services"

	"github.com/gin-gonic/gin"
)

// AssignmentNotifier receives committed membership rewrites for
// realtime fan-out
type AssignmentNotifier interface {
	DevicesAssigned(classID int, deviceIDs []string)
}

// ClassController handles class-related HTTP requests
type ClassController struct {
	classes    *services.ClassService
	devices    *services.DeviceService
	assignment *services.AssignmentService
	notifier   AssignmentNotifier
}

// NewClassController creates a new class controller
func NewClassController(classes *services.ClassService, devices *services.DeviceService, assignment *services.AssignmentService, notifier AssignmentNotifier) *ClassController {
	return &ClassController{classes: classes, devices: devices, assignment: assignment, notifier: notifier}
}

// GetClasses returns all classes with device counts
func (cc *ClassController) GetClasses(c *gin.Context) {
	classes, err := cc.classes.List()
	if err != nil {
		serviceError(c, err, "Class not found")
		return
	}
	successResponse(c, http.StatusOK, "Classes retrieved successfully", classes, len(classes))
}

// GetClass returns a single class by ID
func (cc *ClassController) GetClass(c *gin.Context) {
	id, ok := classID(c)
	if !ok {
		return
	}

	class, err := cc.classes.Get(id)
	if err != nil {
		serviceError(c, err, "No class found with the specified ID")
		return
	}
	successResponse(c, http.StatusOK, "Class retrieved successfully", class, 0)
}

// CreateClass creates a new class
func (cc *ClassController) CreateClass(c *gin.Context) {
	var req services.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format in request body")
		return
	}

	id, err := cc.classes.Create(req)
	if err != nil {
		serviceError(c, err, "Class not found")
		return
	}
	successResponse(c, http.StatusCreated, "Class created successfully", gin.H{"class_id": id}, 0)
}

// UpdateClass applies a partial update to a class
func (cc *ClassController) UpdateClass(c *gin.Context) {
	id, ok := classID(c)
	if !ok {
		return
	}

	var req services.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format in request body")
		return
	}

	if err := cc.classes.Update(id, req); err != nil {
		serviceError(c, err, "No class found with the specified ID")
		return
	}
	successResponse(c, http.StatusOK, "Class updated successfully", nil, 0)
}

// DeleteClass removes a class, detaching its devices
func (cc *ClassController) DeleteClass(c *gin.Context) {
	id, ok := classID(c)
	if !ok {
		return
	}

	if err := cc.classes.Delete(id); err != nil {
		serviceError(c, err, "No class found with the specified ID")
		return
	}
	successResponse(c, http.StatusOK, "Class deleted successfully", nil, 0)
}

// GetClassDevices returns the devices assigned to a class. The legacy
// frontend requests "undefined", "null" or "0" for the unassigned
// bucket, so those tokens list devices without a class.
func (cc *ClassController) GetClassDevices(c *gin.Context) {
	raw := c.Param("id")
	switch raw {
	case "undefined", "null", "unassigned", "0", "":
		cc.unassignedDevices(c)
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_CLASS_ID", "Class ID must be a valid number")
		return
	}
	if id <= 0 {
		cc.unassignedDevices(c)
		return
	}

	devices, err := cc.devices.ListByClass(uint(id))
	if err != nil {
		serviceError(c, err, "No class found with the specified ID")
		return
	}
	successResponse(c, http.StatusOK, "Class devices retrieved successfully", devices, len(devices))
}

func (cc *ClassController) unassignedDevices(c *gin.Context) {
	devices, err := cc.devices.ListUnassigned()
	if err != nil {
		serviceError(c, err, "Class not found")
		return
	}
	successResponse(c, http.StatusOK, "Unassigned devices retrieved successfully", devices, len(devices))
}

// AssignDevicesRequest is the payload of an assignment call
type AssignDevicesRequest struct {
	DeviceIDs []string `json:"device_ids"`
}

// AssignDevices atomically rewrites a class's device membership
func (cc *ClassController) AssignDevices(c *gin.Context) {
	raw := c.Param("id")
	var id int64
	switch raw {
	case "undefined", "null", "":
		id = 0
	default:
		var err error
		id, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "INVALID_CLASS_ID", "Class ID must be a valid number")
			return
		}
	}

	var req AssignDevicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format in request body")
		return
	}
	if req.DeviceIDs == nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "device_ids is required")
		return
	}

	if err := cc.assignment.Assign(int(id), req.DeviceIDs); err != nil {
		serviceError(c, err, "No class found with the specified ID")
		return
	}
	if cc.notifier != nil {
		cc.notifier.DevicesAssigned(int(id), req.DeviceIDs)
	}
	successResponse(c, http.StatusOK, "Devices assigned successfully", nil, 0)
}

func classID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_CLASS_ID", "Class ID must be a valid number")
		return 0, false
	}
	return uint(id), true
}
