package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/socialnet/internal/database"
	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
	"github.com/EgehanKilicarslan/socialnet/internal/database/repository"
)

// LikeReconciler rewrites a post's like_count from its like rows
type LikeReconciler interface {
	Reconcile(ctx context.Context, postID uint) (*models.Post, error)
}

type likeReconciler struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	cache    database.PostCache
	logger   *slog.Logger
}

// NewLikeReconciler creates a new reconciler instance
func NewLikeReconciler(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	cache database.PostCache,
	logger *slog.Logger,
) LikeReconciler {
	return &likeReconciler{
		postRepo: postRepo,
		likeRepo: likeRepo,
		cache:    cache,
		logger:   logger,
	}
}

// Reconcile counts from scratch, so an earlier drift is repaired too
func (r *likeReconciler) Reconcile(ctx context.Context, postID uint) (*models.Post, error) {
	count, err := r.likeRepo.SyncLikeCount(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		r.logger.Error("❌ [LikeReconciler] Failed to store like count", "post_id", postID, "error", err)
		return nil, err
	}

	if err := r.cache.InvalidatePost(ctx, postID); err != nil {
		r.logger.Warn("⚠️ [LikeReconciler] Cache invalidation failed", "post_id", postID, "error", err)
	}

	r.logger.Debug("🔄 [LikeReconciler] Like count reconciled", "post_id", postID, "like_count", count)

	post, err := r.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}
