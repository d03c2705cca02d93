package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/adscope/tiktok-bridge/internal/metrics"
	"github.com/adscope/tiktok-bridge/internal/tracing"
	"github.com/adscope/tiktok-bridge/pkg/models"
)

// Service is the stateless integration facade for the TikTok platform.
// Each operation is a single request/response exchange; retries, timeouts
// and token storage belong to the caller.
type Service struct {
	cfg    *Config
	client *http.Client

	tokenURL     string
	uploadURL    string
	analyticsURL string
}

// Option configures a Service
type Option func(*Service)

// WithHTTPClient overrides the HTTP client used for platform calls
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithBaseURL points all platform endpoints at an alternate host
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.tokenURL = baseURL + "/oauth/token/"
		s.uploadURL = baseURL + "/video/upload/"
		s.analyticsURL = baseURL + "/user/stats/"
	}
}

// NewService creates a new TikTok service
func NewService(cfg *Config, opts ...Option) *Service {
	s := &Service{
		cfg:          cfg,
		client:       &http.Client{},
		tokenURL:     TokenEndpoint,
		uploadURL:    cfg.BaseURL + "/video/upload/",
		analyticsURL: cfg.BaseURL + "/user/stats/",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Login exchanges credentials for a token pair at the platform's token
// endpoint. The returned tokens are not cached or refreshed here.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (*models.TokenPair, error) {
	span, ctx := tracing.StartSpan(ctx, "tiktok.login")
	defer tracing.FinishSpan(span)

	payload, err := json.Marshal(map[string]string{
		"client_key":    s.cfg.ClientKey,
		"client_secret": s.cfg.ClientSecret,
		"username":      creds.Username,
		"password":      creds.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := s.exchange(req, "login")
	if err != nil {
		return nil, err
	}

	var tokens models.TokenPair
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &tokens, nil
}

// UploadVideo submits a multipart video payload to the platform's upload
// endpoint. Input validation happens at the HTTP boundary before this call
// is reachable.
func (s *Service) UploadVideo(ctx context.Context, video *models.VideoUploadRequest) (*models.VideoUploadResult, error) {
	span, ctx := tracing.StartSpan(ctx, "tiktok.upload_video")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "video.size", video.Size)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       video.Title,
		"description": video.Description,
		"privacy":     video.Privacy,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile("video", video.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(video.File); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := s.exchange(req, "upload_video")
	if err != nil {
		return nil, err
	}

	var result models.VideoUploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	metrics.VideoUploadsTotal.Inc()
	metrics.VideoUploadSizeBytes.Observe(float64(video.Size))

	return &result, nil
}

// GetAnalytics requests aggregate account statistics for the given lookback
// window in days
func (s *Service) GetAnalytics(ctx context.Context, days int) (*models.AnalyticsSnapshot, error) {
	span, ctx := tracing.StartSpan(ctx, "tiktok.get_analytics")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "analytics.days", days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.analyticsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics request: %w", err)
	}

	query := req.URL.Query()
	query.Set("days", strconv.Itoa(days))
	req.URL.RawQuery = query.Encode()

	body, err := s.exchange(req, "get_analytics")
	if err != nil {
		return nil, err
	}

	var snapshot models.AnalyticsSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode analytics response: %w", err)
	}

	return &snapshot, nil
}

// exchange executes one platform request and returns the response body on
// 2xx. Every other outcome comes back as a typed *Error: non-2xx statuses
// through TranslateResponse, transport failures through TranslateTransport.
func (s *Service) exchange(req *http.Request, operation string) ([]byte, error) {
	start := time.Now()

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.PlatformCallsTotal.WithLabelValues(operation, "transport_error").Inc()
		return nil, TranslateTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.PlatformCallsTotal.WithLabelValues(operation, "transport_error").Inc()
		return nil, TranslateTransport(err)
	}

	metrics.PlatformCallsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.PlatformCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, TranslateResponse(resp.StatusCode, body)
	}

	return body, nil
}
