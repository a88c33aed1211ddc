package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rendplus-backend/internal/mw"
)

type putDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

// PutDevice stores the calling admin's device token, replacing any token the
// admin registered before.
func (h *Handler) PutDevice(c *gin.Context) {
	var req putDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.GetString(mw.AdminIDKey)
	if err := h.store.UpsertDeviceToken(c.Request.Context(), adminID, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

// DeleteDevice removes the calling admin's device token. Deleting an absent
// registration is not an error.
func (h *Handler) DeleteDevice(c *gin.Context) {
	adminID := c.GetString(mw.AdminIDKey)
	if err := h.store.RemoveDeviceToken(c.Request.Context(), adminID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetDevice reports whether the calling admin has a registered device. The
// token itself is never returned.
func (h *Handler) GetDevice(c *gin.Context) {
	adminID := c.GetString(mw.AdminIDKey)
	rec, err := h.store.GetDeviceToken(c.Request.Context(), adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no device registered"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"registered": true, "updated_at": rec.UpdatedAt})
}
