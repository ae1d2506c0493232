package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

// requestContext returns the context of the inbound request. Flows receive it so that
// a client disconnect cancels pending database and SMTP work.
func requestContext(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}
