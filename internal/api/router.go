package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/socialnet/internal/handler"
	"github.com/EgehanKilicarslan/socialnet/internal/middleware"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth *handler.AuthHandler
	User *handler.UserHandler
	Post *handler.PostHandler
	Like *handler.LikeHandler
}

func SetupRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil)
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	requireAuth := authMiddleware.RequireAuth()

	// Public routes
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Collections answer with and without the trailing slash

	// User routes (Public)
	userGroup := r.Group("/api/v1/users")
	{
		userGroup.GET("", handlers.User.ListUsers)
		userGroup.GET("/", handlers.User.ListUsers)
		userGroup.POST("/signup", handlers.Auth.Signup)
		userGroup.POST("/login", handlers.Auth.Login)
	}

	// Post routes, writes need a user
	postGroup := r.Group("/api/v1/posts")
	{
		postGroup.GET("", handlers.Post.ListPosts)
		postGroup.GET("/", handlers.Post.ListPosts)
		postGroup.GET("/:post_id", handlers.Post.GetPost)
		postGroup.POST("", requireAuth, handlers.Post.CreatePost)
		postGroup.POST("/", requireAuth, handlers.Post.CreatePost)
		postGroup.PATCH("/:post_id", requireAuth, handlers.Post.EditPost)
		postGroup.DELETE("/:post_id", requireAuth, handlers.Post.DeletePost)
	}

	// Like routes (Protected)
	likeGroup := r.Group("/api/v1/like")
	likeGroup.Use(requireAuth)
	{
		likeGroup.POST("/:post_id", handlers.Like.Like)
		likeGroup.DELETE("/:post_id", handlers.Like.Unlike)
	}

	return r
}
