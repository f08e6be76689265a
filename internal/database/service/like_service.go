package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
	"github.com/EgehanKilicarslan/socialnet/internal/database/repository"
)

// LikeService defines the interface for like business logic
type LikeService interface {
	Like(ctx context.Context, liker *models.User, postID uint) (*models.Like, error)
	// Unlike reports false without error when there was nothing to remove
	Unlike(ctx context.Context, liker *models.User, postID uint) (bool, error)
}

type likeService struct {
	postRepo   repository.PostRepository
	likeRepo   repository.LikeRepository
	reconciler LikeReconciler
	logger     *slog.Logger
}

// NewLikeService creates a new like service instance
func NewLikeService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	reconciler LikeReconciler,
	logger *slog.Logger,
) LikeService {
	return &likeService{
		postRepo:   postRepo,
		likeRepo:   likeRepo,
		reconciler: reconciler,
		logger:     logger,
	}
}

func (s *likeService) Like(ctx context.Context, liker *models.User, postID uint) (*models.Like, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("❌ [LikeService] Database error", "post_id", postID, "error", err)
		return nil, err
	}

	if post.IsAuthoredBy(liker.ID) {
		s.logger.Warn("⚠️ [LikeService] Self-like rejected", "post_id", postID, "user_id", liker.ID)
		return nil, ErrSelfLike
	}

	like := &models.Like{PostID: postID, LikerID: liker.ID}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		switch {
		case errors.Is(err, repository.ErrUniquenessViolation):
			s.logger.Warn("⚠️ [LikeService] Duplicate like rejected", "post_id", postID, "user_id", liker.ID)
			return nil, ErrDuplicateLike
		case errors.Is(err, repository.ErrReferenceViolation):
			// post removed between the lookup and the insert
			return nil, ErrPostNotFound
		}
		s.logger.Error("❌ [LikeService] Failed to create like", "post_id", postID, "error", err)
		return nil, err
	}

	if _, err := s.reconciler.Reconcile(ctx, postID); err != nil {
		return nil, err
	}

	s.logger.Info("👍 [LikeService] Post liked", "post_id", postID, "user_id", liker.ID)
	return like, nil
}

func (s *likeService) Unlike(ctx context.Context, liker *models.User, postID uint) (bool, error) {
	like, err := s.likeRepo.FindByPair(ctx, postID, liker.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		s.logger.Error("❌ [LikeService] Database error", "post_id", postID, "error", err)
		return false, err
	}

	if err := s.likeRepo.Remove(ctx, like.ID); err != nil {
		s.logger.Error("❌ [LikeService] Failed to remove like", "like_id", like.ID, "error", err)
		return false, err
	}

	if _, err := s.reconciler.Reconcile(ctx, postID); err != nil {
		return false, err
	}

	s.logger.Info("👎 [LikeService] Post unliked", "post_id", postID, "user_id", liker.ID)
	return true, nil
}

// Like errors
var (
	ErrSelfLike      = fmt.Errorf("%w: users cannot like their own posts", ErrForbidden)
	ErrDuplicateLike = fmt.Errorf("%w: post already liked", ErrForbidden)
)
