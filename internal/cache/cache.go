package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adscope/tiktok-bridge/pkg/models"
)

// Store provides the shared Redis state: rate-limit counters and short-lived
// analytics snapshots
type Store struct {
	client *redis.Client
}

// NewStore creates a new store instance
func NewStore(host string, port int, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks store health
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Rate Limiting Operations

// IncrementRateLimit atomically increments the counter for a client within
// a named policy's window and returns the post-increment count. The window
// starts on the first request and the counter expires with it.
func (s *Store) IncrementRateLimit(ctx context.Context, policy, clientID string, window time.Duration) (int64, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", policy, clientID)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	// Set expiry on first request
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("failed to set expiry: %w", err)
		}
	}

	return count, nil
}

// Analytics Snapshot Operations

// SetAnalytics caches an analytics snapshot for a user and lookback window
func (s *Store) SetAnalytics(ctx context.Context, userID string, days int, snapshot *models.AnalyticsSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := fmt.Sprintf("analytics:%s:%d", userID, days)
	return s.client.Set(ctx, key, data, ttl).Err()
}

// GetAnalytics retrieves a cached analytics snapshot. A cache miss returns
// nil with no error.
func (s *Store) GetAnalytics(ctx context.Context, userID string, days int) (*models.AnalyticsSnapshot, error) {
	key := fmt.Sprintf("analytics:%s:%d", userID, days)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	var snapshot models.AnalyticsSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// DeleteAnalytics removes cached snapshots for a user and window
func (s *Store) DeleteAnalytics(ctx context.Context, userID string, days int) error {
	key := fmt.Sprintf("analytics:%s:%d", userID, days)
	return s.client.Del(ctx, key).Err()
}
