package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solidhub/vocabhub/pkg/vocabhub/models"
	"gorm.io/gorm"
)

const (
	// ContextKeyUserID is the key for user ID in gin context
	ContextKeyUserID = "user_id"
	// ContextKeyWebID is the key for the acting user's webId in gin context
	ContextKeyWebID = "webid"
	// ContextKeySessionID is the key for the session id in gin context
	ContextKeySessionID = "session_id"
)

// Middleware validates Bearer tokens against the session store and sets
// the acting user's identity in the gin context.
func Middleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			if err == ErrExpiredToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		// A token whose session was logged out is no longer valid
		var session models.UserSession
		if err := db.First(&session, "id = ?", claims.ID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session no longer valid"})
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyWebID, claims.WebID)
		c.Set(ContextKeySessionID, claims.ID)

		c.Next()
	}
}

// GetUserID returns the user ID from the gin context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetWebID returns the acting user's webId from the gin context
func GetWebID(c *gin.Context) (string, bool) {
	webID, exists := c.Get(ContextKeyWebID)
	if !exists {
		return "", false
	}
	return webID.(string), true
}

// GetSessionID returns the session id from the gin context
func GetSessionID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextKeySessionID)
	if !exists {
		return "", false
	}
	return id.(string), true
}
