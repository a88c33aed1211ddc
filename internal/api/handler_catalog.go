package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"rendplus-backend/internal/model"
)

// GetServices handles GET /api/services. Public listing, active rows only,
// newest first.
func GetServices(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var services []model.Service
		if err := db.Where("status = ?", "active").Order("created_at DESC").Find(&services).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve services"})
			return
		}
		c.JSON(http.StatusOK, services)
	}
}

// GetPortfolios handles GET /api/portfolios. A featured=true query narrows
// the listing to highlighted projects.
func GetPortfolios(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Where("status = ?", "active")
		if c.Query("featured") == "true" {
			q = q.Where("featured = ?", true)
		}

		var portfolios []model.Portfolio
		if err := q.Order("created_at DESC").Find(&portfolios).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve portfolios"})
			return
		}
		c.JSON(http.StatusOK, portfolios)
	}
}

type upsertServiceRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description" binding:"required"`
	Category       string `json:"category" binding:"required"`
	BasePrice      string `json:"base_price"`
	Benefits       string `json:"benefits"`
	IconName       string `json:"icon_name"`
	ImageURL       string `json:"image_url"`
	SpecialistName string `json:"specialist_name"`
	Status         string `json:"status"`
}

// CreateService handles POST /api/services (admin).
func (h *Handler) CreateService(c *gin.Context) {
	var req upsertServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = "active"
	}
	service := model.Service{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		BasePrice:      req.BasePrice,
		Benefits:       req.Benefits,
		IconName:       req.IconName,
		ImageURL:       req.ImageURL,
		SpecialistName: req.SpecialistName,
		Status:         req.Status,
	}
	if err := h.store.DB().Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, service)
}

// UpdateService handles PUT /api/services/:id (admin). The full row is
// replaced; partial edits are the dialog's job, not the API's.
func (h *Handler) UpdateService(c *gin.Context) {
	var req upsertServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = "active"
	}
	res := h.store.DB().Model(&model.Service{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]any{
			"title":           req.Title,
			"description":     req.Description,
			"category":        req.Category,
			"base_price":      req.BasePrice,
			"benefits":        req.Benefits,
			"icon_name":       req.IconName,
			"image_url":       req.ImageURL,
			"specialist_name": req.SpecialistName,
			"status":          req.Status,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}

	var service model.Service
	if err := h.store.DB().First(&service, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, service)
}

// DeleteService handles DELETE /api/services/:id (admin). The row is
// retired, not removed, so past quote submissions keep their context.
func (h *Handler) DeleteService(c *gin.Context) {
	res := h.store.DB().Model(&model.Service{}).
		Where("id = ?", c.Param("id")).
		Update("status", "inactive")
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

type upsertPortfolioRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Client      string `json:"client"`
	Year        string `json:"year"`
	ImageURL    string `json:"image_url"`
	Featured    bool   `json:"featured"`
	Status      string `json:"status"`
}

// CreatePortfolio handles POST /api/portfolios (admin).
func (h *Handler) CreatePortfolio(c *gin.Context) {
	var req upsertPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = "active"
	}
	portfolio := model.Portfolio{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Client:      req.Client,
		Year:        req.Year,
		ImageURL:    req.ImageURL,
		Featured:    req.Featured,
		Status:      req.Status,
	}
	if err := h.store.DB().Create(&portfolio).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, portfolio)
}

// UpdatePortfolio handles PUT /api/portfolios/:id (admin).
func (h *Handler) UpdatePortfolio(c *gin.Context) {
	var req upsertPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = "active"
	}
	// A map keeps featured=false from being dropped as a zero value.
	res := h.store.DB().Model(&model.Portfolio{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]any{
			"title":       req.Title,
			"description": req.Description,
			"category":    req.Category,
			"client":      req.Client,
			"year":        req.Year,
			"image_url":   req.ImageURL,
			"featured":    req.Featured,
			"status":      req.Status,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
		return
	}

	var portfolio model.Portfolio
	if err := h.store.DB().First(&portfolio, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// DeletePortfolio handles DELETE /api/portfolios/:id (admin).
func (h *Handler) DeletePortfolio(c *gin.Context) {
	res := h.store.DB().Model(&model.Portfolio{}).
		Where("id = ?", c.Param("id")).
		Update("status", "inactive")
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
