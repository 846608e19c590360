package handler

import (
	"errors"
	"net/http"

	"bookly/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer sentinel errors to HTTP statuses.
// Anything unrecognized is a 500 with the detail suppressed, so database
// internals never leak to clients.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrRatingNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrFavoriteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrEmptyReview):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRatingExists),
		errors.Is(err, service.ErrEmailInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCatalogUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "book catalog unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
