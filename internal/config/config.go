package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Auth      AuthConfig
	TikTok    TikTokConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds object storage configuration for the media archive
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// AuthConfig holds dashboard authentication configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// TikTokConfig holds TikTok app credentials and API settings
type TikTokConfig struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	APIVersion   string
}

// SecurityConfig holds cross-origin and upload validation settings
type SecurityConfig struct {
	AllowedOrigin    string
	MaxUploadSize    int64
	AllowedMimeTypes []string
}

// RateLimitPolicy is a fixed-window throttling rule
type RateLimitPolicy struct {
	Window time.Duration
	Max    int64
}

// RateLimitConfig holds the per-route throttling policies
type RateLimitConfig struct {
	General   RateLimitPolicy
	Auth      RateLimitPolicy
	Upload    RateLimitPolicy
	Analytics RateLimitPolicy
}

// TracingConfig holds distributed tracing configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	JaegerEndpoint string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "30s")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "tiktok_bridge")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxConns", 25)
	viper.SetDefault("database.minConns", 5)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Storage defaults
	viper.SetDefault("storage.enabled", true)
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accessKeyID", "minioadmin")
	viper.SetDefault("storage.secretAccessKey", "minioadmin")
	viper.SetDefault("storage.bucketName", "campaign-media")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.useSSL", false)

	// Auth defaults
	viper.SetDefault("auth.jwtSecret", "")
	viper.SetDefault("auth.tokenTTL", "24h")

	// TikTok defaults
	viper.SetDefault("tiktok.clientKey", "")
	viper.SetDefault("tiktok.clientSecret", "")
	viper.SetDefault("tiktok.redirectURI", "")
	viper.SetDefault("tiktok.apiVersion", "v2")

	// Security defaults
	viper.SetDefault("security.allowedOrigin", "http://localhost:3000")
	viper.SetDefault("security.maxUploadSize", 100*1024*1024) // 100MB
	viper.SetDefault("security.allowedMimeTypes", []string{
		"video/mp4",
		"video/quicktime",
		"video/webm",
	})

	// Rate limit defaults
	viper.SetDefault("ratelimit.general.window", "15m")
	viper.SetDefault("ratelimit.general.max", 100)
	viper.SetDefault("ratelimit.auth.window", "60m")
	viper.SetDefault("ratelimit.auth.max", 5)
	viper.SetDefault("ratelimit.upload.window", "60m")
	viper.SetDefault("ratelimit.upload.max", 10)
	viper.SetDefault("ratelimit.analytics.window", "15m")
	viper.SetDefault("ratelimit.analytics.max", 30)

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.serviceName", "tiktok-bridge")
	viper.SetDefault("tracing.jaegerEndpoint", "http://localhost:14268/api/traces")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}
