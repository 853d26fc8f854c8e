package middleware

import (
	"net/http"
	"strings"

	"moim/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// JWTAuthMiddleware validates the Bearer token, rejects revoked ones, and
// stores the authenticated user ID in the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// A token stays usable after logout unless the revocation list says
		// otherwise. An unreachable cache is treated as a miss.
		if authCache := utils.AuthCacheClient; authCache != nil {
			key := utils.AuthCachePrefix + "revoked:" + utils.HashToken(tokenString)
			_, err := authCache.Get(c.Request.Context(), key).Result()
			if err == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
				return
			}
			if err != redis.Nil {
				zap.L().Warn("revocation check failed", zap.Error(err))
			}
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// UserID reads the authenticated user ID set by JWTAuthMiddleware.
func UserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
