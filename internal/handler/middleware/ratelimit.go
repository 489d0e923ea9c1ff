package middleware

import (
	"net/http"
	"strconv"

	"gatherly/internal/handler/httperr"
	"gatherly/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit gates an endpoint with a fixed-window limiter keyed on client
// IP. Limits are approximate by design; their job is abuse dampening, not
// exact accounting.
func RateLimit(limiter *ratelimit.FixedWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := limiter.Allow(c.Request.Context(), c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetEpoch, 10))

		if !result.Allowed {
			httperr.JSON(c, http.StatusTooManyRequests, httperr.CodeRateLimited, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
