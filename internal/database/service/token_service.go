package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/EgehanKilicarslan/socialnet/internal/config"
)

const (
	claimUserID  = "user_id"
	claimExpires = "expires"
)

// TokenService issues and verifies self-contained bearer tokens
type TokenService interface {
	Issue(userID uint) (string, error)
	Verify(tokenString string) (*TokenClaims, error)
}

// TokenClaims is the verified payload of an access token
type TokenClaims struct {
	UserID    uint
	ExpiresAt time.Time
}

type jwtTokenService struct {
	secret []byte
	method jwt.SigningMethod
	window time.Duration
}

// NewTokenService creates a token service signing with cfg.JWTAlgorithm,
// which must be one of the HMAC algorithms.
func NewTokenService(cfg *config.Config) (TokenService, error) {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, cfg.JWTAlgorithm)
	}

	return &jwtTokenService{
		secret: []byte(cfg.JWTSecret),
		method: method,
		window: time.Duration(cfg.JWTEffectSeconds) * time.Second,
	}, nil
}

func (s *jwtTokenService) Issue(userID uint) (string, error) {
	expires := time.Now().Add(s.window)

	claims := jwt.MapClaims{
		claimUserID:  userID,
		claimExpires: float64(expires.UnixNano()) / float64(time.Second),
	}

	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and structure first, then the expiry claim.
// The three failure kinds are distinct: ErrInvalidToken, ErrMissingExpiry
// and ErrTokenExpired.
func (s *jwtTokenService) Verify(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	rawUserID, ok := claims[claimUserID].(float64)
	if !ok || rawUserID < 1 || rawUserID > math.MaxUint32 || rawUserID != math.Trunc(rawUserID) {
		return nil, ErrInvalidToken
	}

	rawExpires, present := claims[claimExpires]
	if !present || rawExpires == nil {
		return nil, ErrMissingExpiry
	}

	expires, ok := rawExpires.(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	sec, frac := math.Modf(expires)
	expiresAt := time.Unix(int64(sec), int64(frac*float64(time.Second)))
	if time.Now().After(expiresAt) {
		return nil, ErrTokenExpired
	}

	return &TokenClaims{
		UserID:    uint(rawUserID),
		ExpiresAt: expiresAt,
	}, nil
}

// Token errors
var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrMissingExpiry        = errors.New("token has no expiry")
	ErrTokenExpired         = errors.New("token expired")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)
