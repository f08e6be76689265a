package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/EgehanKilicarslan/socialnet/internal/database"
	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
	"github.com/EgehanKilicarslan/socialnet/internal/database/repository"
)

// PostService defines the interface for post business logic
type PostService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, postID uint) (*models.Post, error)
	CreatePost(ctx context.Context, author *models.User, text string) (*models.Post, error)
	EditPost(ctx context.Context, editor *models.User, postID uint, text string) (*models.Post, error)
	// DeletePost reports false without error when the post does not exist
	DeletePost(ctx context.Context, requester *models.User, postID uint) (bool, error)
}

type postService struct {
	postRepo repository.PostRepository
	cache    database.PostCache
	logger   *slog.Logger
}

// NewPostService creates a new post service instance
func NewPostService(
	postRepo repository.PostRepository,
	cache database.PostCache,
	logger *slog.Logger,
) PostService {
	return &postService{
		postRepo: postRepo,
		cache:    cache,
		logger:   logger,
	}
}

func (s *postService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.postRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("❌ [PostService] Failed to list posts", "error", err)
		return nil, err
	}
	return posts, nil
}

func (s *postService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, hit, err := s.cache.GetPost(ctx, postID)
	if err != nil {
		s.logger.Warn("⚠️ [PostService] Cache read failed", "post_id", postID, "error", err)
	} else if hit {
		return post, nil
	}

	post, err = s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPost(ctx, post); err != nil {
		s.logger.Warn("⚠️ [PostService] Cache write failed", "post_id", postID, "error", err)
	}

	return post, nil
}

func (s *postService) CreatePost(ctx context.Context, author *models.User, text string) (*models.Post, error) {
	post := &models.Post{
		Text:            text,
		AuthorID:        author.ID,
		CreateTimestamp: time.Now().Unix(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error("❌ [PostService] Failed to create post", "author_id", author.ID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [PostService] Post created", "post_id", post.ID, "author_id", author.ID)
	return post, nil
}

func (s *postService) EditPost(ctx context.Context, editor *models.User, postID uint, text string) (*models.Post, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.IsAuthoredBy(editor.ID) {
		s.logger.Warn("⚠️ [PostService] Edit denied", "post_id", postID, "user_id", editor.ID)
		return nil, ErrNotPostAuthor
	}

	patch := map[string]any{
		"text":             text,
		"update_timestamp": time.Now().Unix(),
	}
	if err := s.postRepo.Update(ctx, post, patch); err != nil {
		s.logger.Error("❌ [PostService] Failed to update post", "post_id", postID, "error", err)
		return nil, err
	}

	s.invalidate(ctx, postID)

	s.logger.Info("✅ [PostService] Post updated", "post_id", postID)
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, requester *models.User, postID uint) (bool, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return false, nil
		}
		return false, err
	}

	if !post.IsAuthoredBy(requester.ID) {
		s.logger.Warn("⚠️ [PostService] Delete denied", "post_id", postID, "user_id", requester.ID)
		return false, ErrNotPostAuthor
	}

	if err := s.postRepo.Remove(ctx, postID); err != nil {
		s.logger.Error("❌ [PostService] Failed to delete post", "post_id", postID, "error", err)
		return false, err
	}

	s.invalidate(ctx, postID)

	s.logger.Info("🗑️ [PostService] Post deleted", "post_id", postID)
	return true, nil
}

func (s *postService) findPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("❌ [PostService] Database error", "post_id", postID, "error", err)
		return nil, err
	}
	return post, nil
}

func (s *postService) invalidate(ctx context.Context, postID uint) {
	if err := s.cache.InvalidatePost(ctx, postID); err != nil {
		s.logger.Warn("⚠️ [PostService] Cache invalidation failed", "post_id", postID, "error", err)
	}
}

// Post errors
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrForbidden     = errors.New("action not allowed")
	ErrNotPostAuthor = fmt.Errorf("%w: only the author can change a post", ErrForbidden)
)
