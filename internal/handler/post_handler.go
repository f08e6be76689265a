package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/socialnet/internal/database/service"
	"github.com/EgehanKilicarslan/socialnet/internal/middleware"
)

// PostHandler handles HTTP requests for posts
type PostHandler struct {
	service service.PostService
	logger  *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(service service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		logger:  logger,
	}
}

// PostRequest is the body of create and edit. Any author or timestamp
// fields a client sends are ignored.
type PostRequest struct {
	Text string `json:"text" binding:"required"`
}

// ListPosts returns every post
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), postID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost publishes a post as the current user
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid post request", "error", err)
		respondDetail(c, http.StatusUnprocessableEntity, "Invalid request. Non-empty text is required.")
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), middleware.CurrentUser(c), req.Text)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// EditPost replaces the text of one of the current user's posts
func (h *PostHandler) EditPost(c *gin.Context) {
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid post request", "error", err)
		respondDetail(c, http.StatusUnprocessableEntity, "Invalid request. Non-empty text is required.")
		return
	}

	post, err := h.service.EditPost(c.Request.Context(), middleware.CurrentUser(c), postID, req.Text)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost removes one of the current user's posts. A deleted post and a
// missing one get the same not-found answer.
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}

	if _, err := h.service.DeletePost(c.Request.Context(), middleware.CurrentUser(c), postID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	respondDetail(c, http.StatusNotFound, detailNotFound)
}
