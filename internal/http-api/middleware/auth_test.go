package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookly/internal/http-api/middleware"
	"bookly/internal/http-api/models"
	"bookly/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubAuthService validates exactly one token string
type stubAuthService struct {
	validToken string
	userID     string
	err        error
}

func (s *stubAuthService) Register(ctx context.Context, email, password, displayName string) (*models.User, string, error) {
	return nil, "", nil
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return nil, "", nil
}

func (s *stubAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	if tokenString != s.validToken {
		return nil, service.ErrInvalidToken
	}
	return &service.Claims{UserID: s.userID}, nil
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return nil, nil
}

func (s *stubAuthService) TokenTTL() time.Duration {
	return time.Hour
}

func newAuthTestRouter(authService service.AuthService, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var mw gin.HandlerFunc
	if optional {
		mw = middleware.OptionalAuth(authService)
	} else {
		mw = middleware.AuthMiddleware(authService)
	}

	r.GET("/whoami", mw, func(c *gin.Context) {
		userID, ok := middleware.UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": ok})
	})
	return r
}

func TestAuthMiddleware_NoCookie(t *testing.T) {
	r := newAuthTestRouter(&stubAuthService{}, false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_missing")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r := newAuthTestRouter(&stubAuthService{validToken: "good"}, false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tampered"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_invalid")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r := newAuthTestRouter(&stubAuthService{err: service.ErrExpiredToken}, false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "stale"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_expired")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := newAuthTestRouter(&stubAuthService{validToken: "good", userID: "user-1"}, false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	r := newAuthTestRouter(&stubAuthService{}, true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestOptionalAuth_BadCookiePassesThroughAnonymous(t *testing.T) {
	r := newAuthTestRouter(&stubAuthService{validToken: "good"}, true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tampered"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestOptionalAuth_ValidCookieSetsIdentity(t *testing.T) {
	r := newAuthTestRouter(&stubAuthService{validToken: "good", userID: "user-1"}, true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}
