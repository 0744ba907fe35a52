package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	domainerrors "poll-service/internal/domain/errors"
	"poll-service/internal/ratelimit"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware enforces per-identity per-operation request budgets in
// front of every handler. A limiter backend failure rejects the request
// (fail-closed): a broken limiter must never turn into an unlimited one.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
}

func NewRateLimitMiddleware(limiter ratelimit.Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// ByIdentity limits authenticated operations per account. It must run after
// RequireAuth.
func (rm *RateLimitMiddleware) ByIdentity(op ratelimit.Op) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Error(c, fmt.Errorf("%w: identity missing from request", domainerrors.ErrUnauthorized))
			c.Abort()
			return
		}

		rm.check(c, fmt.Sprintf("user:%d", userID), op)
	}
}

// ByIP limits anonymous read operations per network origin.
func (rm *RateLimitMiddleware) ByIP(op ratelimit.Op) gin.HandlerFunc {
	return func(c *gin.Context) {
		rm.check(c, "ip:"+c.ClientIP(), op)
	}
}

func (rm *RateLimitMiddleware) check(c *gin.Context, identity string, op ratelimit.Op) {
	err := rm.limiter.Allow(c.Request.Context(), identity, op)
	switch {
	case err == nil:
		c.Next()
	case errors.Is(err, domainerrors.ErrRateLimited):
		response.RateLimited(c)
		c.Abort()
	default:
		slog.Error("Rate limit check failed", "op", string(op), "error", err)
		c.JSON(http.StatusInternalServerError, response.ErrorBody{
			Error:  response.KindInternal,
			Detail: "rate limit check failed",
		})
		c.Abort()
	}
}
