package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier is the slice of the Firebase auth client the middleware
// needs. Tests substitute a stub that mints tokens locally
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// NewAuthMiddleware verifies the bearer identity token on every request
// and exposes the caller's UID as userID. Requests without a valid token
// never reach a handler
func NewAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message":   "No token provided",
				"requestID": requestID,
			})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message":   "Invalid token",
				"requestID": requestID,
			})

			zap.L().Debug("Failed to verify identity token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", token.UID)
		c.Set("authToken", token)
		c.Next()
	}
}
