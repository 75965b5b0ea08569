package response

import (
	"net/http"

	"github.com/faarish/invoicing-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// The wire format is intentionally flat: bare records and arrays on
// reads, {id, message} / {message} on writes, {error} on failures.

// OK sends a 200 response with the payload as the body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with the assigned id and a message.
func Created(c *gin.Context, id uint, message string) {
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": message})
}

// Message sends a 200 response carrying only a message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Error sends an error response using the AppError status code.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}

// BadRequest sends a 400 error response
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
