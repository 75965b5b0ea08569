package handler

import (
	"strconv"

	"github.com/faarish/invoicing-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// parseID extracts the numeric :id path parameter, responding with 400
// on malformed input.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return 0, false
	}
	return uint(id), true
}
