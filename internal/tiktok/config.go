package tiktok

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/adscope/tiktok-bridge/internal/config"
	"github.com/adscope/tiktok-bridge/pkg/models"
)

// Platform endpoints. These are fixed by TikTok and not configurable.
const (
	AuthEndpoint  = "https://www.tiktok.com/v2/auth/authorize/"
	TokenEndpoint = "https://open.tiktokapis.com/v2/oauth/token/"
)

// Scopes requested during authorization, in the order they are presented
// to the user
var Scopes = []string{
	"user.info.basic",
	"user.info.stats",
	"video.list",
	"video.upload",
	"video.publish",
}

// Permissions describe each requested scope for display in the dashboard's
// consent screen. Parallel to Scopes.
var Permissions = []models.Permission{
	{Name: "Profile Info", Scope: "user.info.basic", Description: "Read your TikTok display name and avatar"},
	{Name: "Profile Stats", Scope: "user.info.stats", Description: "Read follower counts and profile view statistics"},
	{Name: "Video List", Scope: "video.list", Description: "Read the list of videos on your account"},
	{Name: "Video Upload", Scope: "video.upload", Description: "Upload videos to your account as drafts"},
	{Name: "Video Publish", Scope: "video.publish", Description: "Publish videos directly to your account"},
}

// Config holds the resolved TikTok app settings. It is built once at
// startup and read-only afterwards.
type Config struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	APIVersion   string
	BaseURL      string
}

// NewConfig resolves the TikTok app configuration
func NewConfig(cfg config.TikTokConfig) (*Config, error) {
	if cfg.ClientKey == "" {
		return nil, fmt.Errorf("tiktok client key is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("tiktok client secret is required")
	}
	if cfg.RedirectURI == "" {
		return nil, fmt.Errorf("tiktok redirect URI is required")
	}

	version := cfg.APIVersion
	if version == "" {
		version = "v2"
	}

	return &Config{
		ClientKey:    cfg.ClientKey,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		APIVersion:   version,
		BaseURL:      fmt.Sprintf("https://open.tiktokapis.com/%s", version),
	}, nil
}

// AuthorizationURL builds the OAuth authorization URL with a fresh state
// token. The state is returned alongside the URL so the caller can verify
// it on the redirect.
func (c *Config) AuthorizationURL() (string, string, error) {
	state, err := newStateToken()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state token: %w", err)
	}

	params := url.Values{}
	params.Set("client_key", c.ClientKey)
	params.Set("redirect_uri", c.RedirectURI)
	params.Set("scope", strings.Join(Scopes, ","))
	params.Set("response_type", "code")
	params.Set("state", state)

	return AuthEndpoint + "?" + params.Encode(), state, nil
}

// newStateToken returns an unpredictable opaque token for CSRF protection
// of the OAuth redirect
func newStateToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
