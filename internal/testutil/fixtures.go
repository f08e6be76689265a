package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/socialnet/internal/api"
	"github.com/EgehanKilicarslan/socialnet/internal/config"
	"github.com/EgehanKilicarslan/socialnet/internal/database"
	"github.com/EgehanKilicarslan/socialnet/internal/database/repository"
	"github.com/EgehanKilicarslan/socialnet/internal/database/service"
	"github.com/EgehanKilicarslan/socialnet/internal/handler"
	"github.com/EgehanKilicarslan/socialnet/internal/middleware"
	"github.com/EgehanKilicarslan/socialnet/internal/worker"
)

// ==================== CONFIG & LOGGER ====================

// TestConfig returns a configuration for testing
func TestConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		LogLevel:               slog.LevelError,
		ApiServicePort:         "8080",
		DatabaseURL:            "sqlite://:memory:",
		DatabaseConnectRetries: 1,
		JWTSecret:              "test-secret-key-for-testing-purposes",
		JWTAlgorithm:           "HS256",
		JWTEffectSeconds:       3600,
		BcryptCost:             int64(bcrypt.MinCost),
		HashWorkers:            2,
		RedisHost:              "localhost",
		RedisPort:              6379,
		PostCacheTTL:           60,
	}
}

// TestLogger returns a silent logger for testing
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ==================== DATABASE ====================

// NewTestDB opens a migrated in-memory SQLite database that lives as long as t
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	target, err := database.ParseDatabaseURL("sqlite://:memory:")
	require.NoError(t, err)

	db, err := database.Open(target, TestLogger())
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, target.Dialect, TestLogger()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// NewFileTestDB opens a migrated SQLite file under t.TempDir. Unlike
// NewTestDB it allows several open connections, so concurrent writers
// contend on the real database locks.
func NewFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	target, err := database.ParseDatabaseURL("sqlite://" + filepath.Join(t.TempDir(), "socialnet.db"))
	require.NoError(t, err)

	db, err := database.Open(target, TestLogger())
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, target.Dialect, TestLogger()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// ==================== APPLICATION ====================

// TestApp is the full HTTP stack on top of a test database
type TestApp struct {
	Router *gin.Engine
	DB     *gorm.DB
	Pool   *worker.Pool
}

// NewTestApp wires the real services against NewTestDB and cache.
// A nil cache means no caching.
func NewTestApp(t *testing.T, cache database.PostCache) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	logger := TestLogger()
	db := NewTestDB(t)

	if cache == nil {
		cache = database.NewNoOpPostCache(logger)
	}

	pool := worker.NewPool(cfg.HashWorkers, logger)
	t.Cleanup(func() { pool.Shutdown(0) })

	tokens, err := service.NewTokenService(cfg)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	authService := service.NewAuthService(userRepo, service.NewBcryptHasher(cfg, pool), tokens, logger)
	reconciler := service.NewLikeReconciler(postRepo, likeRepo, cache, logger)

	handlers := api.Handlers{
		Auth: handler.NewAuthHandler(authService, logger),
		User: handler.NewUserHandler(service.NewUserService(userRepo, logger), logger),
		Post: handler.NewPostHandler(service.NewPostService(postRepo, cache, logger), logger),
		Like: handler.NewLikeHandler(service.NewLikeService(postRepo, likeRepo, reconciler, logger), logger),
	}

	router := api.SetupRouter(handlers, middleware.NewAuthMiddleware(authService, logger), logger)

	return &TestApp{Router: router, DB: db, Pool: pool}
}

// Do sends a JSON request (body may be nil) with an optional bearer token
func (a *TestApp) Do(method, target string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

// DoForm posts a form-urlencoded body
func (a *TestApp) DoForm(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

// Signup registers username with password "password123" and returns its id
func (a *TestApp) Signup(t *testing.T, username string) uint {
	t.Helper()

	w := a.Do(http.MethodPost, SignupEndpoint, map[string]string{
		"username": username,
		"password": "password123",
		"name":     strings.ToUpper(username[:1]) + username[1:],
		"surname":  "Tester",
		"email":    username + "@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user struct {
		ID uint `json:"id"`
	}
	DecodeJSON(t, w, &user)
	return user.ID
}

// Login returns an access token for username
func (a *TestApp) Login(t *testing.T, username string) string {
	t.Helper()

	w := a.Do(http.MethodPost, LoginEndpoint, map[string]string{
		"username": username,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
	}
	DecodeJSON(t, w, &token)
	return token.AccessToken
}

// DecodeJSON unmarshals the recorded body into v
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
