package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"rendplus-backend/config"
	"rendplus-backend/internal/mw"
	"rendplus-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, dispatcher Dispatcher, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	handler := NewHandler(s, dispatcher, cfg.Push.VAPIDPublicKey)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL, cfg.Server.AdminIDHeader)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Public marketing site surface.
		api.GET("/services", caching, GetServices(db))
		api.GET("/portfolios", caching, GetPortfolios(db))
		api.POST("/quotes", handler.CreateQuote)
		api.GET("/notifications/web_push_key", handler.GetWebPushKey)

		// Admin surface, keyed by the identity header.
		admin := api.Group("")
		admin.Use(mw.RequireAdmin(cfg.Server.AdminIDHeader))
		{
			admin.GET("/quotes", handler.ListQuotes)

			admin.PUT("/notifications/device", handler.PutDevice)
			admin.DELETE("/notifications/device", handler.DeleteDevice)
			admin.GET("/notifications/device", handler.GetDevice)
			admin.POST("/notifications/test", handler.SendTestNotification)

			admin.POST("/services", handler.CreateService)
			admin.PUT("/services/:id", handler.UpdateService)
			admin.DELETE("/services/:id", handler.DeleteService)
			admin.POST("/portfolios", handler.CreatePortfolio)
			admin.PUT("/portfolios/:id", handler.UpdatePortfolio)
			admin.DELETE("/portfolios/:id", handler.DeletePortfolio)
		}
	}

	return r
}
