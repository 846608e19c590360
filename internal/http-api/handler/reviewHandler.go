package handler

import (
	"net/http"

	"bookly/internal/http-api/dto"
	"bookly/internal/http-api/middleware"
	"bookly/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	// Public read access
	router.GET("/:id/reviews", h.ListBookReviews)

	// Write routes need a session
	router.POST("/:id/review", requireAuth, h.Upsert)
	router.PUT("/:id/review", requireAuth, h.Update)
	router.DELETE("/:id/review", requireAuth, h.Delete)
	router.GET("/user/reviews", requireAuth, h.ListUserReviews)
}

// Upsert creates the current user's review or updates it in place
// POST /api/books/:id/review
func (h *ReviewHandler) Upsert(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, created, err := h.reviewService.UpsertReview(c.Request.Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	// echo through the DTO so the text is escaped like every read path
	c.JSON(status, dto.FromModelToReviewResponse(review))
}

// Update changes the current user's existing review
// PUT /api/books/:id/review
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToReviewResponse(review))
}

// Delete removes the current user's review
// DELETE /api/books/:id/review
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted successfully"})
}

// ListBookReviews returns all reviews for a book
// GET /api/books/:id/reviews
func (h *ReviewHandler) ListBookReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListBookReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// ListUserReviews returns the current user's reviews with their books
// GET /api/books/user/reviews
func (h *ReviewHandler) ListUserReviews(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	reviews, err := h.reviewService.ListUserReviews(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
