package handler

import (
	"net/http"
	"strings"

	"bookly/internal/http-api/middleware"
	"bookly/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	bookService service.BookService
}

func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// RegisterRoutes registers the book browsing routes on the /books group
func (h *BookHandler) RegisterRoutes(books *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	books.GET("", h.List)
	books.GET("/search/:query", h.Search)
	// viewer state is included when a valid session is present, but the
	// detail page stays public
	books.GET("/:id", optionalAuth, h.Detail)
}

// List returns every locally cached book with its aggregates
// GET /api/books
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.bookService.ListBooks(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// Search proxies a free-text search to the external catalog
// GET /api/books/search/:query
func (h *BookHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Param("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query must not be empty"})
		return
	}

	results, err := h.bookService.Search(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Detail returns the unified view for one external catalog ID
// GET /api/books/:id
func (h *BookHandler) Detail(c *gin.Context) {
	googleID := c.Param("id")

	viewerID, _ := middleware.UserIDFromContext(c)

	detail, err := h.bookService.GetBookDetail(c.Request.Context(), googleID, viewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
