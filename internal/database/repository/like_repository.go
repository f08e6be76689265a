package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Store[models.Like]
	CountByPost(ctx context.Context, postID uint) (int64, error)
	SyncLikeCount(ctx context.Context, postID uint) (int64, error)
	FindByPair(ctx context.Context, postID, likerID uint) (*models.Like, error)
}

type likeRepository struct {
	Store[models.Like]
	db *gorm.DB
}

// NewLikeRepository creates a new like repository instance
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{
		Store: NewStore[models.Like](db),
		db:    db,
	}
}

// CountByPost counts the like rows currently referencing postID
func (r *likeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	})
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindByPair returns the like of likerID on postID, or ErrNotFound
func (r *likeRepository) FindByPair(ctx context.Context, postID, likerID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("post_id = ? AND liker_id = ?", postID, likerID).First(&like).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &like, nil
}

// SyncLikeCount rewrites posts.like_count from the like rows of postID and
// returns the stored value. The post row stays locked from the count to the
// write, so concurrent callers for one post apply in order. ErrNotFound when
// the post is gone.
func (r *likeRepository) SyncLikeCount(ctx context.Context, postID uint) (int64, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// no-op on sqlite, where the write lock is taken at BEGIN IMMEDIATE
		if err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Select("id").First(&post, postID).Error; err != nil {
			return err
		}

		likes := tx.Model(&models.Like{}).Select("COUNT(*)").Where("post_id = ?", postID)
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("like_count", likes).Error; err != nil {
			return err
		}

		return tx.Select("like_count").First(&post, postID).Error
	})
	if err != nil {
		return 0, translateError(err)
	}
	return post.LikeCount, nil
}
