package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/socialnet/internal/config"
	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
)

// PostCache keeps single posts close to the read path. It is a cache-aside
// store: the database stays authoritative and writers invalidate entries.
type PostCache interface {
	// GetPost returns the cached post and true, or nil and false on a miss
	GetPost(ctx context.Context, postID uint) (*models.Post, bool, error)
	SetPost(ctx context.Context, post *models.Post) error
	InvalidatePost(ctx context.Context, postID uint) error
	Close() error
}

// RedisPostCache stores posts as JSON strings with a TTL
type RedisPostCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewRedisPostCache connects to Redis and returns a cache backed by it
func NewRedisPostCache(cfg *config.Config, logger *slog.Logger) (*RedisPostCache, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDB,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDB),
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return NewRedisPostCacheWithClient(client, cfg, logger), nil
}

// NewRedisPostCacheWithClient wraps an existing client (used by tests)
func NewRedisPostCacheWithClient(client *redis.Client, cfg *config.Config, logger *slog.Logger) *RedisPostCache {
	return &RedisPostCache{
		client: client,
		logger: logger,
		ttl:    time.Duration(cfg.PostCacheTTL) * time.Second,
	}
}

func postKey(postID uint) string {
	return fmt.Sprintf("post:%d", postID)
}

func (r *RedisPostCache) GetPost(ctx context.Context, postID uint) (*models.Post, bool, error) {
	data, err := r.client.Get(ctx, postKey(postID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to get post", "post_id", postID, "error", err)
		return nil, false, err
	}

	var post models.Post
	if err := json.Unmarshal(data, &post); err != nil {
		// A corrupt entry is treated as a miss and dropped
		r.logger.Warn("⚠️ [Redis] Failed to unmarshal post, evicting", "post_id", postID, "error", err)
		_ = r.client.Del(ctx, postKey(postID)).Err()
		return nil, false, nil
	}

	r.logger.Debug("📖 [Redis] Post cache hit", "post_id", postID)
	return &post, true, nil
}

func (r *RedisPostCache) SetPost(ctx context.Context, post *models.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, postKey(post.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to cache post", "post_id", post.ID, "error", err)
		return err
	}

	r.logger.Debug("💾 [Redis] Cached post", "post_id", post.ID, "ttl", r.ttl)
	return nil
}

func (r *RedisPostCache) InvalidatePost(ctx context.Context, postID uint) error {
	if err := r.client.Del(ctx, postKey(postID)).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to invalidate post", "post_id", postID, "error", err)
		return err
	}

	r.logger.Debug("🗑️ [Redis] Invalidated post", "post_id", postID)
	return nil
}

// Close closes the Redis connection
func (r *RedisPostCache) Close() error {
	return r.client.Close()
}

// NoOpPostCache never stores anything. Used when Redis is not available.
type NoOpPostCache struct{}

// NewNoOpPostCache creates a cache that always misses
func NewNoOpPostCache(logger *slog.Logger) PostCache {
	logger.Warn("⚠️ [Redis] Using no-op post cache - post reads go straight to the database")
	return NoOpPostCache{}
}

func (NoOpPostCache) GetPost(ctx context.Context, postID uint) (*models.Post, bool, error) {
	return nil, false, nil
}

func (NoOpPostCache) SetPost(ctx context.Context, post *models.Post) error {
	return nil
}

func (NoOpPostCache) InvalidatePost(ctx context.Context, postID uint) error {
	return nil
}

func (NoOpPostCache) Close() error {
	return nil
}
