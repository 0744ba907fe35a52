package middleware

import (
	"fmt"
	"strings"

	domainerrors "poll-service/internal/domain/errors"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies bearer tokens issued by the external identity
// provider. Tokens are HS256 JWTs carrying a numeric "user_id" claim and an
// optional "is_admin" flag.
type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's identity in the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, fmt.Errorf("%w: authorization header is required", domainerrors.ErrUnauthorized))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(am.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			response.Error(c, fmt.Errorf("%w: invalid token", domainerrors.ErrUnauthorized))
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, fmt.Errorf("%w: invalid token claims", domainerrors.ErrUnauthorized))
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			response.Error(c, fmt.Errorf("%w: user_id claim must be a number", domainerrors.ErrUnauthorized))
			c.Abort()
			return
		}

		isAdmin, _ := claims["is_admin"].(bool)

		c.Set("user_id", uint(userID))
		c.Set("is_admin", isAdmin)
		c.Next()
	}
}

// RequireAdmin gates operations reserved for admin identities. It must run
// after RequireAuth.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			response.Error(c, fmt.Errorf("%w: admin identity required", domainerrors.ErrForbidden))
			c.Abort()
			return
		}
		c.Next()
	}
}
