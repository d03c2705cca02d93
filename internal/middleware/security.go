package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/adscope/tiktok-bridge/internal/config"
)

// Hosts the content security policy trusts beyond the site itself: the
// TikTok API host for data connections and the TikTok web host for the
// framed authorization page.
const (
	tiktokAPIHost = "https://open.tiktokapis.com"
	tiktokWebHost = "https://www.tiktok.com"
)

// CORS returns cross-origin middleware restricted to the configured site
// origin. Credentials are permitted and preflight results cache for 24h.
func CORS(cfg config.SecurityConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}

// SecurityHeaders returns header-hardening middleware: a content security
// policy pinning script/style/image/connect/frame sources, no object
// embedding, and insecure request upgrades.
func SecurityHeaders() gin.HandlerFunc {
	csp := strings.Join([]string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self'",
		"img-src 'self'",
		"connect-src 'self' " + tiktokAPIHost,
		"frame-src 'self' " + tiktokWebHost,
		"object-src 'none'",
		"upgrade-insecure-requests",
	}, "; ")

	return secure.New(secure.Config{
		ContentSecurityPolicy: csp,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
	})
}
