package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/reelhub/reelhub/pkg/errors"
	"github.com/reelhub/reelhub/pkg/response"
)

// bindJSON decodes the request body into dest. Field rules are left to the flows,
// which report them as results.
func bindJSON[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}
	return true
}

// hasBody reports whether the request carries a body; chunked bodies have an unknown length.
func hasBody(c *gin.Context) bool {
	return c.Request != nil && c.Request.Body != nil && c.Request.Body != http.NoBody && c.Request.ContentLength != 0
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
