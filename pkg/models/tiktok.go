package models

import (
	"time"
)

// Credentials carry a TikTok login request. They are supplied per call and
// never persisted by this service.
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPair is the result of a successful credential exchange. Ownership
// passes to the caller; this layer does not cache or refresh it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// VideoPrivacy values accepted by the upload endpoint
const (
	VideoPrivacyPublic  = "public"
	VideoPrivacyPrivate = "private"
	VideoPrivacyFriends = "friends"
)

// VideoUploadRequest describes a multipart video submission. All fields must
// pass validation before a network call is attempted.
type VideoUploadRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Privacy     string `json:"privacy"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	File        []byte `json:"-"`
}

// VideoUploadResult is returned by the platform on a successful upload
type VideoUploadResult struct {
	VideoID  string `json:"video_id"`
	VideoURL string `json:"video_url"`
}

// AnalyticsSnapshot holds aggregate account statistics for a lookback window
type AnalyticsSnapshot struct {
	FollowerCount int64 `json:"follower_count"`
	ProfileViews  int64 `json:"profile_views"`
	VideoViews    int64 `json:"video_views"`
	Likes         int64 `json:"likes"`
}

// Permission is a human-readable descriptor for a requested OAuth scope
type Permission struct {
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	Description string `json:"description"`
}

// ConnectedAccount is a social account linked to a dashboard user
type ConnectedAccount struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Platform     string    `json:"platform" db:"platform"`
	Username     string    `json:"username" db:"username"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	ConnectedAt  time.Time `json:"connected_at" db:"connected_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Platform constants for connected accounts
const (
	PlatformTikTok = "tiktok"
)
