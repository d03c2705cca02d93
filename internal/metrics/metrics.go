package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tiktok_bridge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tiktok_bridge_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Platform Metrics
	PlatformCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tiktok_bridge_platform_calls_total",
			Help: "Total number of outbound TikTok platform calls",
		},
		[]string{"operation", "status"},
	)

	PlatformCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tiktok_bridge_platform_call_duration_seconds",
			Help:    "TikTok platform call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Upload Metrics
	VideoUploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tiktok_bridge_video_uploads_total",
			Help: "Total number of video uploads forwarded to the platform",
		},
	)

	VideoUploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tiktok_bridge_video_upload_size_bytes",
			Help:    "Size of uploaded videos in bytes",
			Buckets: prometheus.ExponentialBuckets(1024*1024, 2, 8), // 1MB to 128MB
		},
	)

	// Rate Limiting Metrics
	RateLimitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tiktok_bridge_ratelimit_rejections_total",
			Help: "Total number of requests rejected by a throttling policy",
		},
		[]string{"policy"},
	)

	RateLimitStoreErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tiktok_bridge_ratelimit_store_errors_total",
			Help: "Total number of counter store failures (requests failed open)",
		},
	)

	// Validation Metrics
	ValidationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tiktok_bridge_upload_validation_failures_total",
			Help: "Total number of upload requests rejected by validation",
		},
	)
)
