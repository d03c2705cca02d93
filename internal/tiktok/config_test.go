package tiktok

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/tiktok-bridge/internal/config"
)

func testAppConfig() config.TikTokConfig {
	return config.TikTokConfig{
		ClientKey:    "test_client_key",
		ClientSecret: "test_client_secret",
		RedirectURI:  "https://dashboard.example.com/auth/tiktok/callback",
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(testAppConfig())
	require.NoError(t, err)

	assert.Equal(t, "test_client_key", cfg.ClientKey)
	assert.Equal(t, "v2", cfg.APIVersion, "version defaults to v2")
	assert.Equal(t, "https://open.tiktokapis.com/v2", cfg.BaseURL)
}

func TestNewConfigVersionOverride(t *testing.T) {
	appCfg := testAppConfig()
	appCfg.APIVersion = "v3"

	cfg, err := NewConfig(appCfg)
	require.NoError(t, err)

	assert.Equal(t, "https://open.tiktokapis.com/v3", cfg.BaseURL)
}

func TestNewConfigMissingSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.TikTokConfig)
	}{
		{"missing client key", func(c *config.TikTokConfig) { c.ClientKey = "" }},
		{"missing client secret", func(c *config.TikTokConfig) { c.ClientSecret = "" }},
		{"missing redirect URI", func(c *config.TikTokConfig) { c.RedirectURI = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appCfg := testAppConfig()
			tt.mutate(&appCfg)

			_, err := NewConfig(appCfg)
			assert.Error(t, err)
		})
	}
}

func TestAuthorizationURL(t *testing.T) {
	cfg, err := NewConfig(testAppConfig())
	require.NoError(t, err)

	rawURL, state, err := cfg.AuthorizationURL()
	require.NoError(t, err)
	require.NotEmpty(t, state)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rawURL, AuthEndpoint))

	query := parsed.Query()
	assert.Equal(t, "test_client_key", query.Get("client_key"))
	assert.Equal(t, "https://dashboard.example.com/auth/tiktok/callback", query.Get("redirect_uri"))
	assert.Equal(t, strings.Join(Scopes, ","), query.Get("scope"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, state, query.Get("state"))
}

func TestAuthorizationURLStateUnique(t *testing.T) {
	cfg, err := NewConfig(testAppConfig())
	require.NoError(t, err)

	_, first, err := cfg.AuthorizationURL()
	require.NoError(t, err)

	_, second, err := cfg.AuthorizationURL()
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "state must differ between calls")
}

func TestPermissionsMatchScopes(t *testing.T) {
	require.Len(t, Permissions, len(Scopes))

	for i, scope := range Scopes {
		assert.Equal(t, scope, Permissions[i].Scope)
		assert.NotEmpty(t, Permissions[i].Name)
		assert.NotEmpty(t, Permissions[i].Description)
	}
}
