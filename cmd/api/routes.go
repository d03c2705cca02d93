package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adscope/tiktok-bridge/internal/middleware"
)

func setupRouter(api *API, rl *middleware.RateLimiter) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(api.logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(api.cfg.Security))

	router.GET("/health", api.healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Dashboard sign-in
		auth := v1.Group("/auth")
		auth.Use(rl.Limit(middleware.PolicyGeneral))
		{
			auth.POST("/login", api.loginHandler)
		}

		// TikTok integration, behind dashboard auth
		tk := v1.Group("/tiktok")
		tk.Use(middleware.JWTAuth())
		{
			tk.GET("/auth-url", rl.Limit(middleware.PolicyAuth), api.tiktokAuthURLHandler)
			tk.POST("/login", rl.Limit(middleware.PolicyAuth), api.tiktokLoginHandler)
			tk.POST("/videos",
				rl.Limit(middleware.PolicyUpload),
				middleware.ValidateUpload(api.cfg.Security),
				api.uploadVideoHandler)
			tk.GET("/analytics", rl.Limit(middleware.PolicyAnalytics), api.analyticsHandler)
		}

		// Connected accounts
		accounts := v1.Group("/accounts")
		accounts.Use(middleware.JWTAuth(), rl.Limit(middleware.PolicyGeneral))
		{
			accounts.GET("", api.listAccountsHandler)
			accounts.DELETE("/:id", api.deleteAccountHandler)
		}
	}

	return router
}
