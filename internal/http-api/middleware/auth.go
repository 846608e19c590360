package middleware

import (
	"errors"
	"net/http"

	"bookly/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the HTTP-only cookie carrying the session token
const SessionCookieName = "token"

// AuthMiddleware is a Gin middleware enforcing authentication on protected
// routes. It reads the session token from the HTTP-only cookie, validates it,
// and stores the user ID in the request context.
//
// The 401 body carries a code so clients can tell "please log in"
// (token_missing / token_invalid) apart from "session expired, log in again"
// (token_expired).
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "code": "token_missing"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, service.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again", "code": "token_expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "code": "token_invalid"})
			}
			c.Abort()
			return
		}

		// Set user info in context for handlers to use
		c.Set("userID", claims.UserID)

		c.Next()
	}
}

// OptionalAuth extracts the user identity when a valid session cookie is
// present but never blocks the request. Public routes use it so the response
// can include viewer-specific state for logged-in users.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := c.Cookie(SessionCookieName); err == nil && tokenString != "" {
			if claims, err := authService.ValidateToken(tokenString); err == nil {
				c.Set("userID", claims.UserID)
			}
		}
		c.Next()
	}
}

// UserIDFromContext retrieves the authenticated user's ID set by the auth
// middlewares. The bool result is false for anonymous requests.
func UserIDFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}
