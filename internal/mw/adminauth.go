package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminIDKey is the gin context key holding the authenticated admin's ID.
const AdminIDKey = "admin_id"

// RequireAdmin rejects requests that do not carry the admin identity header.
// The header value becomes the registry owner key for device operations.
func RequireAdmin(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin identity required"})
			return
		}
		c.Set(AdminIDKey, id)
		c.Next()
	}
}
