package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects requests whose Accept header admits neither
// application/json nor a wildcard. An absent Accept header means the
// client takes anything.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		accept := c.GetHeader("Accept")
		if accept == "" ||
			strings.Contains(accept, "application/json") ||
			strings.Contains(accept, "application/*") ||
			strings.Contains(accept, "*/*") {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{
			"Error": "This API only serves application/json",
		})
	}
}
