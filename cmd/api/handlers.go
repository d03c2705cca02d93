package main

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/adscope/tiktok-bridge/internal/middleware"
	"github.com/adscope/tiktok-bridge/internal/tiktok"
	"github.com/adscope/tiktok-bridge/pkg/models"
)

const analyticsCacheTTL = 5 * time.Minute

// healthHandler reports liveness of the service and its backends
// GET /health
func (api *API) healthHandler(c *gin.Context) {
	ctx := c.Request.Context()

	if err := api.repo.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "component": "database"})
		return
	}

	if err := api.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "component": "redis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// loginHandler signs a dashboard user in and mints a session token
// POST /api/v1/auth/login
func (api *API) loginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	user, err := api.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, api.cfg.Auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(api.cfg.Auth.TokenTTL),
	})
}

// tiktokAuthURLHandler returns the OAuth authorization URL and the
// permission descriptors shown on the consent screen
// GET /api/v1/tiktok/auth-url
func (api *API) tiktokAuthURLHandler(c *gin.Context) {
	authURL, state, err := api.tiktokCfg.AuthorizationURL()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build authorization URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorization_url": authURL,
		"state":             state,
		"permissions":       tiktok.Permissions,
	})
}

// tiktokLoginHandler exchanges TikTok credentials for tokens and links the
// account to the signed-in dashboard user
// POST /api/v1/tiktok/login
func (api *API) tiktokLoginHandler(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest,
			tiktok.NewValidationError("invalid login request", []string{"username and password are required"}))
		return
	}

	tokens, err := api.tiktok.Login(c.Request.Context(), creds)
	if err != nil {
		api.writeServiceError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	account := &models.ConnectedAccount{
		UserID:       userID,
		Platform:     models.PlatformTikTok,
		Username:     creds.Username,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}

	// Token ownership passes to the dashboard either way; a persistence
	// failure must not discard a successful exchange.
	if err := api.repo.SaveConnectedAccount(c.Request.Context(), account); err != nil {
		api.logger.ErrorWithErr("failed to persist connected account", err)
	}

	c.JSON(http.StatusOK, tokens)
}

// uploadVideoHandler forwards a validated multipart video to the platform
// POST /api/v1/tiktok/videos
func (api *API) uploadVideoHandler(c *gin.Context) {
	req := c.MustGet(middleware.UploadRequestKey).(*models.VideoUploadRequest)
	header := c.MustGet(middleware.UploadFileKey).(*multipart.FileHeader)

	data, err := readUploadFile(header)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	req.File = data

	result, err := api.tiktok.UploadVideo(c.Request.Context(), req)
	if err != nil {
		api.writeServiceError(c, err)
		return
	}

	// Archive the binary for campaign-asset reuse; the upload already
	// succeeded, so archive failures are only logged.
	if api.archive != nil {
		go func(videoID string, data []byte, contentType string) {
			if err := api.archive.ArchiveVideo(context.Background(), videoID, data, contentType); err != nil {
				api.logger.ErrorWithErr("failed to archive uploaded video", err)
			}
		}(result.VideoID, data, req.ContentType)
	}

	c.JSON(http.StatusCreated, result)
}

// analyticsHandler returns account statistics for a lookback window
// GET /api/v1/tiktok/analytics?days=N
func (api *API) analyticsHandler(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest,
				tiktok.NewValidationError("invalid analytics request", []string{"days must be a positive integer"}))
			return
		}
		days = parsed
	}

	userID, _ := middleware.GetUserID(c)

	// Serve from cache when fresh to spare the platform quota
	if cached, err := api.store.GetAnalytics(c.Request.Context(), userID, days); err == nil && cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	snapshot, err := api.tiktok.GetAnalytics(c.Request.Context(), days)
	if err != nil {
		api.writeServiceError(c, err)
		return
	}

	if err := api.store.SetAnalytics(c.Request.Context(), userID, days, snapshot, analyticsCacheTTL); err != nil {
		api.logger.ErrorWithErr("failed to cache analytics snapshot", err)
	}

	c.JSON(http.StatusOK, snapshot)
}

// listAccountsHandler lists the user's connected social accounts
// GET /api/v1/accounts
func (api *API) listAccountsHandler(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	accounts, err := api.repo.GetConnectedAccounts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list connected accounts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// deleteAccountHandler disconnects a social account
// DELETE /api/v1/accounts/:id
func (api *API) deleteAccountHandler(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := api.repo.DeleteConnectedAccount(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "connected account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account disconnected"})
}

// writeServiceError renders a typed TikTok failure with its own status.
// Transport failures carry no status and surface as a bad gateway.
func (api *API) writeServiceError(c *gin.Context, err error) {
	var tkErr *tiktok.Error
	if errors.As(err, &tkErr) {
		status := tkErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, tkErr)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func readUploadFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
