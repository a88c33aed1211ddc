package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rendplus-backend/internal/model"
	"rendplus-backend/internal/mw"
)

// GetWebPushKey returns the application server key clients need when
// requesting a device token.
func (h *Handler) GetWebPushKey(c *gin.Context) {
	if h.vapidKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "web push key is not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_key": h.vapidKey})
}

// SendTestNotification pushes a diagnostic notification to every registered
// admin device, attributed to the admin who triggered it.
func (h *Handler) SendTestNotification(c *gin.Context) {
	if h.dispatcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push delivery is not configured"})
		return
	}

	adminID := c.GetString(mw.AdminIDKey)
	result, err := h.dispatcher.Dispatch(c.Request.Context(), model.NewTestEvent(adminID))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     err.Error(),
			"delivered": result.Delivered,
			"attempted": result.Attempted,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"delivered": result.Delivered,
		"attempted": result.Attempted,
	})
}
