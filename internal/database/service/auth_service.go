package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
	"github.com/EgehanKilicarslan/socialnet/internal/database/repository"
)

// TokenType is the scheme clients put in front of the access token
const TokenType = "Bearer"

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*AccessToken, error)
	// Authenticate resolves a bearer token to an active user
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// SignupInput carries the fields a new account is created from
type SignupInput struct {
	Username string
	Password string
	Name     string
	Surname  string
	Email    string
}

// AccessToken is the result of a successful login
type AccessToken struct {
	Token     string
	TokenType string
}

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenService
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenService,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	s.logger.Info("📝 [AuthService] Signup attempt", "username", input.Username)

	hashedPassword, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Password: hashedPassword,
		Name:     input.Name,
		Surname:  input.Surname,
		Email:    input.Email,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniquenessViolation) {
			s.logger.Warn("⚠️ [AuthService] Username already taken", "username", input.Username)
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*AccessToken, error) {
	s.logger.Info("🔐 [AuthService] Login attempt", "username", username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("⚠️ [AuthService] User not found", "username", username)
			return nil, ErrUserNotFound
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}

	if !user.IsActive {
		s.logger.Warn("⚠️ [AuthService] Inactive user tried to log in", "user_id", user.ID)
		return nil, ErrUserInactive
	}

	if !s.hasher.Verify(ctx, password, user.Password) {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "user_id", user.ID)
		return nil, ErrWrongPassword
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to issue token", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] Login successful", "user_id", user.ID)
	return &AccessToken{Token: token, TokenType: TokenType}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNoCredentials
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug("🔒 [AuthService] Token rejected", "error", err)
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}

	// deactivated accounts look exactly like missing ones
	if !user.IsActive {
		return nil, ErrUnknownUser
	}

	return user, nil
}

// Auth errors
var (
	ErrNoCredentials     = errors.New("not authenticated")
	ErrUnknownUser       = errors.New("user not found or inactive")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserInactive      = errors.New("user is inactive")
	ErrWrongPassword     = errors.New("incorrect password")
	ErrUserAlreadyExists = errors.New("username already exists")
)
