package middleware

import (
	"net/http"

	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/ratelimit"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/prometheus"
	"github.com/labstack/echo/v4"
)

// RateLimit rejects requests whose client IP exhausted the general API
// window. A nil limiter disables throttling.
func RateLimit(limiter *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}
			if !limiter.Allow(c.RealIP()) {
				prometheus.RecordRateLimited("api")
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"message":    "too many requests",
					"statusCode": http.StatusTooManyRequests,
				})
			}
			return next(c)
		}
	}
}
