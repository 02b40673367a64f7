package delivery

import (
	"net/http"
	"strings"

	authdomain "cpsheet-backend/internal/auth/domain"
	"cpsheet-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

const (
	userContextKey   = "user"
	userIDContextKey = "userID"
)

// AuthMiddleware is the strict guard for protected API routes: a missing,
// malformed or expired token aborts the request with 401.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
			c.Abort()
			return
		}

		user, err := authUsecase.ValidateAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		setCurrentUser(c, user)
		c.Next()
	}
}

// SoftAuthMiddleware resolves the user when a valid token is present and
// continues anonymously otherwise. It never rejects; consumers render for
// whoever (if anyone) is authenticated.
func SoftAuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if user, err := authUsecase.ValidateAccessToken(token); err == nil {
				setCurrentUser(c, user)
			}
		}
		c.Next()
	}
}

// tokenFromRequest prefers the accessToken cookie and falls back to a bearer
// Authorization header.
func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(accessTokenCookie); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func setCurrentUser(c *gin.Context, user *authdomain.User) {
	c.Set(userContextKey, user)
	c.Set(userIDContextKey, user.ID)
}

// CurrentUser returns the user attached by one of the auth middlewares.
func CurrentUser(c *gin.Context) (*authdomain.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*authdomain.User)
	return user, ok
}
