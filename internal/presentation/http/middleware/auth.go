package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
)

// TokenVerifier returns the caller id carried by a valid bearer token
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token subject as user_id
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperror.NewUnauthenticated("Authorization header is required"))
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Abort(c, apperror.NewUnauthenticated("Invalid authorization header format"))
			return
		}

		subject, err := verifier.Verify(parts[1])
		if err != nil {
			response.Abort(c, apperror.NewUnauthenticated("Invalid or expired token"))
			return
		}

		c.Set("user_id", subject)
		c.Next()
	}
}
