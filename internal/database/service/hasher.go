package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/socialnet/internal/config"
	"github.com/EgehanKilicarslan/socialnet/internal/worker"
)

// PasswordHasher hashes and checks passwords with a slow salted function
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	// Verify reports whether password matches hash. A malformed hash or a
	// cancelled context yields false.
	Verify(ctx context.Context, password, hash string) bool
}

type bcryptHasher struct {
	cost int
	pool *worker.Pool
}

// NewBcryptHasher creates a bcrypt hasher that runs on pool
func NewBcryptHasher(cfg *config.Config, pool *worker.Pool) PasswordHasher {
	cost := int(cfg.BcryptCost)
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost, pool: pool}
}

func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	var hashed []byte
	err := h.pool.Run(ctx, func() error {
		var err error
		hashed, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(ctx context.Context, password, hash string) bool {
	var match bool
	err := h.pool.Run(ctx, func() error {
		match = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
		return nil
	})
	return err == nil && match
}
