package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/socialnet/internal/database/service"
)

const (
	detailNotFound  = "Requested data not found."
	detailForbidden = "Action not allowed."
	detailInternal  = "Internal server error"
)

func respondDetail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

// handleServiceError maps service errors to a status and a {"detail"} body
func handleServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		respondDetail(c, http.StatusForbidden, "A user with this username already exists.")
	case errors.Is(err, service.ErrUserNotFound):
		respondDetail(c, http.StatusNotFound, "User not found.")
	case errors.Is(err, service.ErrUserInactive):
		respondDetail(c, http.StatusForbidden, "User is inactive.")
	case errors.Is(err, service.ErrWrongPassword):
		respondDetail(c, http.StatusUnauthorized, "Incorrect password.")
	case errors.Is(err, service.ErrPostNotFound):
		respondDetail(c, http.StatusNotFound, "Post not found.")
	case errors.Is(err, service.ErrNotPostAuthor):
		respondDetail(c, http.StatusForbidden, "Only the author can change or delete a post.")
	case errors.Is(err, service.ErrSelfLike):
		respondDetail(c, http.StatusForbidden, "Liking your own post is not allowed.")
	case errors.Is(err, service.ErrDuplicateLike):
		respondDetail(c, http.StatusForbidden, "Repeated like is not allowed.")
	case errors.Is(err, service.ErrForbidden):
		respondDetail(c, http.StatusForbidden, detailForbidden)
	default:
		logger.Error("❌ [Handler] Internal server error", "error", err)
		_ = c.Error(err)
		respondDetail(c, http.StatusInternalServerError, detailInternal)
	}
}

// parseID reads a positive integer path parameter. It answers 422 itself
// and returns false when the value is not one.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		respondDetail(c, http.StatusUnprocessableEntity, "Invalid "+param+": integer expected.")
		return 0, false
	}
	return uint(id), true
}
