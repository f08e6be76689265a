package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Store[models.User]
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type userRepository struct {
	Store[models.User]
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{Store: NewStore[models.User](db)}
}

// FindByUsername matches the username exactly (case-sensitive)
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.GetOneByField(ctx, "username", username)
}
