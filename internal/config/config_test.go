package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Create temporary config file
	content := `
server:
  port: 9090
  host: "127.0.0.1"

tiktok:
  clientKey: "test_client_key"
  clientSecret: "test_client_secret"
  redirectURI: "https://dashboard.example.com/auth/tiktok/callback"

security:
  allowedOrigin: "https://dashboard.example.com"
`

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load config
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.TikTok.ClientKey != "test_client_key" {
		t.Errorf("Expected client key test_client_key, got %s", cfg.TikTok.ClientKey)
	}

	if cfg.Security.AllowedOrigin != "https://dashboard.example.com" {
		t.Errorf("Expected allowed origin https://dashboard.example.com, got %s", cfg.Security.AllowedOrigin)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte("server:\n  port: 8081\n")); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Rate limit policy defaults
	if cfg.RateLimit.General.Window != 15*time.Minute || cfg.RateLimit.General.Max != 100 {
		t.Errorf("Unexpected general policy: %+v", cfg.RateLimit.General)
	}
	if cfg.RateLimit.Auth.Window != 60*time.Minute || cfg.RateLimit.Auth.Max != 5 {
		t.Errorf("Unexpected auth policy: %+v", cfg.RateLimit.Auth)
	}
	if cfg.RateLimit.Upload.Window != 60*time.Minute || cfg.RateLimit.Upload.Max != 10 {
		t.Errorf("Unexpected upload policy: %+v", cfg.RateLimit.Upload)
	}
	if cfg.RateLimit.Analytics.Window != 15*time.Minute || cfg.RateLimit.Analytics.Max != 30 {
		t.Errorf("Unexpected analytics policy: %+v", cfg.RateLimit.Analytics)
	}

	// Upload validation defaults
	if cfg.Security.MaxUploadSize != 100*1024*1024 {
		t.Errorf("Expected 100MB max upload size, got %d", cfg.Security.MaxUploadSize)
	}
	if len(cfg.Security.AllowedMimeTypes) == 0 {
		t.Error("Expected default MIME allow-list")
	}

	if cfg.TikTok.APIVersion != "v2" {
		t.Errorf("Expected API version v2, got %s", cfg.TikTok.APIVersion)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}
