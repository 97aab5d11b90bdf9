package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/softdesk/softdesk-api/internal/errors"
)

// paramID parses a numeric URL parameter. On failure it writes a 400
// response and returns ok=false.
func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
