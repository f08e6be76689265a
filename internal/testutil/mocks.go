package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
	"github.com/EgehanKilicarslan/socialnet/internal/database/service"
)

// ==================== MOCK STORE ====================

// MockStore implements repository.Store for any entity kind
type MockStore[T models.Entity] struct {
	mock.Mock
}

func (m *MockStore[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	args := m.MethodCalled("GetByID", ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) GetAll(ctx context.Context) ([]T, error) {
	args := m.MethodCalled("GetAll", ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockStore[T]) GetOneByField(ctx context.Context, field string, value any) (*T, error) {
	args := m.MethodCalled("GetOneByField", ctx, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) GetManyByField(ctx context.Context, field string, value any) ([]T, error) {
	args := m.MethodCalled("GetManyByField", ctx, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockStore[T]) Create(ctx context.Context, entity *T) error {
	args := m.MethodCalled("Create", ctx, entity)
	return args.Error(0)
}

func (m *MockStore[T]) Update(ctx context.Context, entity *T, patch map[string]any) error {
	args := m.MethodCalled("Update", ctx, entity, patch)
	return args.Error(0)
}

func (m *MockStore[T]) Remove(ctx context.Context, id uint) error {
	args := m.MethodCalled("Remove", ctx, id)
	return args.Error(0)
}

// ==================== MOCK USER REPOSITORY ====================

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	MockStore[models.User]
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.MethodCalled("FindByUsername", ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ==================== MOCK POST CACHE ====================

// MockPostCache implements database.PostCache for testing
type MockPostCache struct {
	mock.Mock
}

func (m *MockPostCache) GetPost(ctx context.Context, postID uint) (*models.Post, bool, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Post), args.Bool(1), args.Error(2)
}

func (m *MockPostCache) SetPost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostCache) InvalidatePost(ctx context.Context, postID uint) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ==================== MOCK PASSWORD HASHER ====================

// MockPasswordHasher implements service.PasswordHasher for testing
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(ctx context.Context, password, hash string) bool {
	args := m.Called(ctx, password, hash)
	return args.Bool(0)
}

// ==================== MOCK AUTH SERVICE ====================

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, input service.SignupInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.AccessToken, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AccessToken), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
