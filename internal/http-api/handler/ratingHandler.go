package handler

import (
	"net/http"

	"bookly/internal/http-api/dto"
	"bookly/internal/http-api/middleware"
	"bookly/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RegisterRoutes registers rating routes
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	// Public read access
	router.GET("/:id/ratings", h.ListBookRatings)

	// Write routes need a session
	router.POST("/:id/rate", requireAuth, h.Create)
	router.PUT("/:id/rate", requireAuth, h.Update)
	router.DELETE("/:id/rate", requireAuth, h.Delete)
	router.GET("/user/ratings", requireAuth, h.ListUserRatings)
}

// Create records a new rating for the current user
// POST /api/books/:id/rate
func (h *RatingHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratingService.CreateRating(c.Request.Context(), userID, c.Param("id"), req.Score)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

// Update changes the current user's existing rating
// PUT /api/books/:id/rate
func (h *RatingHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratingService.UpdateRating(c.Request.Context(), userID, c.Param("id"), req.Score)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Delete removes the current user's rating
// DELETE /api/books/:id/rate
func (h *RatingHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.ratingService.DeleteRating(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating deleted successfully"})
}

// ListBookRatings returns all ratings for a book
// GET /api/books/:id/ratings
func (h *RatingHandler) ListBookRatings(c *gin.Context) {
	ratings, err := h.ratingService.ListBookRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// ListUserRatings returns the current user's ratings with their books
// GET /api/books/user/ratings
func (h *RatingHandler) ListUserRatings(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ratings, err := h.ratingService.ListUserRatings(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}
