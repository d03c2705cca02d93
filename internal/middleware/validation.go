package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adscope/tiktok-bridge/internal/config"
	"github.com/adscope/tiktok-bridge/internal/metrics"
	"github.com/adscope/tiktok-bridge/internal/tiktok"
	"github.com/adscope/tiktok-bridge/pkg/models"
)

// Context keys set by ValidateUpload for the upload handler
const (
	UploadRequestKey = "upload_request"
	UploadFileKey    = "upload_file"
)

// ValidateUpload checks a multipart video submission before any platform
// call. All violations are collected rather than short-circuited, so the
// dashboard can show every problem at once. On success the parsed request
// and file header are placed in the context.
func ValidateUpload(cfg config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.PostForm("title")
		description := c.PostForm("description")
		privacy := c.PostForm("privacy")
		file, fileErr := c.FormFile("video")

		var violations []string

		if len(title) < 3 {
			violations = append(violations, "title must be at least 3 characters")
		}

		if description == "" {
			violations = append(violations, "description is required")
		}

		switch privacy {
		case models.VideoPrivacyPublic, models.VideoPrivacyPrivate, models.VideoPrivacyFriends:
		default:
			violations = append(violations, "privacy must be one of: public, private, friends")
		}

		if fileErr != nil || file == nil {
			violations = append(violations, "video file is required")
		} else {
			if file.Size > cfg.MaxUploadSize {
				violations = append(violations,
					fmt.Sprintf("video file exceeds maximum size of %d bytes", cfg.MaxUploadSize))
			}

			contentType := file.Header.Get("Content-Type")
			if !mimeTypeAllowed(contentType, cfg.AllowedMimeTypes) {
				violations = append(violations,
					fmt.Sprintf("video file type %q is not allowed", contentType))
			}
		}

		if len(violations) > 0 {
			metrics.ValidationFailuresTotal.Inc()
			c.JSON(http.StatusBadRequest, tiktok.NewValidationError("invalid upload request", violations))
			c.Abort()
			return
		}

		c.Set(UploadRequestKey, &models.VideoUploadRequest{
			Title:       title,
			Description: description,
			Privacy:     privacy,
			Filename:    file.Filename,
			Size:        file.Size,
			ContentType: file.Header.Get("Content-Type"),
		})
		c.Set(UploadFileKey, file)

		c.Next()
	}
}

func mimeTypeAllowed(contentType string, allowed []string) bool {
	// Ignore any media-type parameters on the declared type
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(contentType)

	for _, m := range allowed {
		if strings.EqualFold(contentType, m) {
			return true
		}
	}
	return false
}
