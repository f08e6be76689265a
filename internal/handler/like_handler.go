package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/socialnet/internal/database/service"
	"github.com/EgehanKilicarslan/socialnet/internal/middleware"
)

// LikeHandler handles HTTP requests for likes
type LikeHandler struct {
	service service.LikeService
	logger  *slog.Logger
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service service.LikeService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{
		service: service,
		logger:  logger,
	}
}

type LikeResponse struct {
	PostID  uint `json:"post_id"`
	LikerID uint `json:"liker_id"`
}

// Like records that the current user likes a post
func (h *LikeHandler) Like(c *gin.Context) {
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}

	like, err := h.service.Like(c.Request.Context(), middleware.CurrentUser(c), postID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, LikeResponse{
		PostID:  like.PostID,
		LikerID: like.LikerID,
	})
}

// Unlike removes the current user's like, if any. Both outcomes answer
// with the not-found body.
func (h *LikeHandler) Unlike(c *gin.Context) {
	postID, ok := parseID(c, "post_id")
	if !ok {
		return
	}

	if _, err := h.service.Unlike(c.Request.Context(), middleware.CurrentUser(c), postID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	respondDetail(c, http.StatusNotFound, detailNotFound)
}
