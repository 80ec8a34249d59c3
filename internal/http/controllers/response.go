package controllers

import (
	"errors"
	"net/http"

	"classroom_server/internal/services"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON shape of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SuccessResponse is the JSON shape of every success reply
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Count   int         `json:"count,omitempty"`
}

func errorResponse(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
		Code:    errorCode,
	})
}

func successResponse(c *gin.Context, statusCode int, message string, data interface{}, count int) {
	response := SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
	if count > 0 {
		response.Count = count
	}
	c.JSON(statusCode, response)
}

// serviceError maps the service error taxonomy onto HTTP statuses
func serviceError(c *gin.Context, err error, notFoundMessage string) {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "NOT_FOUND", notFoundMessage)
	case errors.Is(err, services.ErrConflict):
		errorResponse(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.As(err, &ve):
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error())
	default:
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
	}
}
