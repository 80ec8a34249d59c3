package controllers

import (
	"net/http"
	"strconv"

	"classroom_server/internal/services"

	"github.com/gin-gonic/gin"
)

// LogController handles operation-log HTTP requests
type LogController struct {
	logs *services.LogService
}

// NewLogController creates a new log controller
func NewLogController(logs *services.LogService) *LogController {
	return &LogController{logs: logs}
}

// GetLogs returns a filtered, paginated page of the audit trail
func (lc *LogController) GetLogs(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_PAGE", "page must be a number")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_PAGE_SIZE", "page_size must be a number")
		return
	}

	filter := services.LogFilter{
		DeviceID:  c.Query("device_id"),
		Operation: c.Query("operation"),
		Date:      c.Query("date"),
	}

	result, err := lc.logs.Query(filter, page, pageSize)
	if err != nil {
		serviceError(c, err, "Log not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetLogDetail returns a single audit entry
func (lc *LogController) GetLogDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_LOG_ID", "Log ID must be a valid number")
		return
	}

	entry, err := lc.logs.Detail(uint(id))
	if err != nil {
		serviceError(c, err, "No log found with the specified ID")
		return
	}
	successResponse(c, http.StatusOK, "Log retrieved successfully", entry, 0)
}

// ClearLogs deletes the entire audit trail
func (lc *LogController) ClearLogs(c *gin.Context) {
	if err := lc.logs.Clear(); err != nil {
		serviceError(c, err, "Log not found")
		return
	}
	successResponse(c, http.StatusOK, "All logs have been cleared", nil, 0)
}
