package middleware

import (
	"net/http"

	"goddit/internal/auth"
	"goddit/internal/db"
	"goddit/internal/models"

	"github.com/gin-gonic/gin"
)

// UserKey is the context key the resolved user is stored under.
const UserKey = "user"

// TokenCookie is the name of the HTTP-only cookie carrying the JWT.
const TokenCookie = "token"

// LoadUser resolves the auth cookie to a user and sets it on the
// request context. A missing cookie means an anonymous request and the
// chain continues; a bad token or unknown username aborts with 401 so
// no partial user context is ever attached.
func LoadUser(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(TokenCookie)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}

		username, err := tokens.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		var user models.User
		if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		c.Set(UserKey, &user)
		c.Next()
	}
}

// AuthRequired rejects requests that did not resolve to a user.
// Chain after LoadUser on protected routes.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(UserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the resolved user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(UserKey); exists {
		return u.(*models.User)
	}
	return nil
}
