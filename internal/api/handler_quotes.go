package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rendplus-backend/internal/metrics"
	"rendplus-backend/internal/model"
)

type createQuoteRequest struct {
	UserName           string     `json:"user_name" binding:"required"`
	UserEmail          string     `json:"user_email" binding:"required,email"`
	UserPhone          string     `json:"user_phone"`
	ServiceType        string     `json:"service_type" binding:"required"`
	ProjectDescription string     `json:"project_description" binding:"required"`
	PreferredDeadline  *time.Time `json:"preferred_deadline"`
}

// CreateQuote persists a visitor's quote request and then notifies admin
// devices. Notification is best-effort: a delivery failure never fails the
// submission, it only adds a warning to the response.
func (h *Handler) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote := model.QuoteSubmission{
		ID:                 uuid.NewString(),
		UserName:           req.UserName,
		UserEmail:          req.UserEmail,
		UserPhone:          req.UserPhone,
		ServiceType:        req.ServiceType,
		ProjectDescription: req.ProjectDescription,
		PreferredDeadline:  req.PreferredDeadline,
	}
	if err := h.store.CreateQuoteSubmission(c.Request.Context(), &quote); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.QuoteSubmissionsTotal.Inc()

	resp := gin.H{"id": quote.ID}
	if h.dispatcher != nil {
		event := model.NewQuoteSubmissionEvent(req.UserName, req.UserEmail)
		result, err := h.dispatcher.Dispatch(c.Request.Context(), event)
		resp["notified"] = result.Delivered
		if err != nil {
			log.Printf("quote %s saved but notification failed: %v", quote.ID, err)
			resp["warning"] = "notification delivery failed"
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// ListQuotes returns all submissions, newest first, for the admin dashboard.
func (h *Handler) ListQuotes(c *gin.Context) {
	var quotes []model.QuoteSubmission
	if err := h.store.DB().Order("created_at DESC").Find(&quotes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quotes)
}
