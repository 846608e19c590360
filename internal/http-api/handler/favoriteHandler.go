package handler

import (
	"net/http"

	"bookly/internal/http-api/middleware"
	"bookly/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// RegisterRoutes registers favorite routes; all of them require a session
func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	router.POST("/:id/favorite", requireAuth, h.Toggle)
	router.DELETE("/:id/favorite", requireAuth, h.Unfavorite)
	router.GET("/user/favorites", requireAuth, h.ListFavorites)
}

// Toggle flips the favorite state for the current user
// POST /api/books/:id/favorite
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	favorited, err := h.favoriteService.Toggle(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "book removed from favorites"
	if favorited {
		message = "book added to favorites"
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited, "message": message})
}

// Unfavorite removes an active favorite explicitly
// DELETE /api/books/:id/favorite
func (h *FavoriteHandler) Unfavorite(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.favoriteService.Unfavorite(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book removed from favorites"})
}

// ListFavorites returns the current user's actively favorited books
// GET /api/books/user/favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	books, err := h.favoriteService.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}
