package repository

import (
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Store[models.Post]
}

type postRepository struct {
	Store[models.Post]
}

// NewPostRepository creates a new post repository instance
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{Store: NewStore[models.Post](db)}
}
