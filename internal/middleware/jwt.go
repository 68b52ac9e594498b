package middleware

import (
	"net/http"
	"strings"

	"blog_api/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthMiddleware verifies the bearer token and attaches the identity to the context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// "Bearer <token>"; only the second field is used
		var tokenString string
		if parts := strings.Split(c.GetHeader("Authorization"), " "); len(parts) > 1 {
			tokenString = parts[1]
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access Denied"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString, secret)
		if err != nil {
			logrus.WithError(err).WithField("path", c.Request.URL.Path).Debug("Rejected bearer token")
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid Token"})
			c.Abort()
			return
		}

		auth.SetUser(c, claims)
		c.Next()
	}
}
